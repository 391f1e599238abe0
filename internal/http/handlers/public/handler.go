package public

import "github.com/indra-store/internal/provider"

// Handler 店铺前台接口：商品目录、购物车、下单、会员账户
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
