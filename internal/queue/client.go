package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical
)

const (
	emailMaxRetry  = 5
	emailTimeout   = 30 * time.Second
	emailRetention = 24 * time.Hour
)

// Client 邮件任务投递端；队列未启用时所有投递都是空操作
type Client struct {
	client *asynq.Client
}

// NewClient 队列未启用时返回空实现
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderCreatedEmail 下单确认邮件走高优先级队列，同一订单只投递一次
func (c *Client) EnqueueOrderCreatedEmail(payload OrderCreatedEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderCreatedEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, CriticalQueue, fmt.Sprintf("order-created:%d", payload.OrderID))
}

// EnqueueOrderStatusEmail 状态邮件按 (订单, 状态) 去重
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, DefaultQueue, fmt.Sprintf("order-status:%d:%s", payload.OrderID, payload.Status))
}

func (c *Client) enqueue(task *asynq.Task, queueName, taskID string) error {
	_, err := c.client.Enqueue(task,
		asynq.Queue(queueName),
		asynq.TaskID(taskID),
		asynq.MaxRetry(emailMaxRetry),
		asynq.Timeout(emailTimeout),
		asynq.Retention(emailRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// ServerConfig worker 端配置；默认 critical:default 按 6:3 加权
func ServerConfig(cfg *config.QueueConfig) asynq.Config {
	serverCfg := asynq.Config{
		Concurrency:     10,
		Queues:          map[string]int{CriticalQueue: 6, DefaultQueue: 3},
		ShutdownTimeout: 10 * time.Second,
	}
	if cfg == nil {
		return serverCfg
	}
	if cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return serverCfg
}

// RedisOpt 队列使用的 Redis 连接参数
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
