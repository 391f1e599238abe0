package service

import "errors"

var (
	// ErrNotFound 通用资源不存在
	ErrNotFound = errors.New("not found")

	// ErrInvalidEmail 邮箱格式无效
	ErrInvalidEmail = errors.New("invalid email")
	// ErrEmailExists 邮箱已注册
	ErrEmailExists = errors.New("email already registered")
	// ErrPasswordTooShort 密码长度不足
	ErrPasswordTooShort = errors.New("password too short")
	// ErrInvalidCredentials 账号或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken 会话令牌无效
	ErrInvalidToken = errors.New("invalid token")
	// ErrJWTSecretMissing 未配置签名密钥
	ErrJWTSecretMissing = errors.New("jwt secret missing")
	// ErrAdminRequired 非管理员
	ErrAdminRequired = errors.New("admin required")

	// ErrCustomerEmailRequired 缺少客户邮箱
	ErrCustomerEmailRequired = errors.New("customer email required")
	// ErrAddressRequired 缺少收货地址
	ErrAddressRequired = errors.New("address required")
	// ErrCityRequired 缺少城市
	ErrCityRequired = errors.New("city required")
	// ErrCartEmpty 下单条目为空
	ErrCartEmpty = errors.New("cart is empty")
	// ErrOrderItemInvalid 下单条目无效
	ErrOrderItemInvalid = errors.New("order item invalid")
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderIDRequired 缺少订单 ID
	ErrOrderIDRequired = errors.New("order id required")
	// ErrOrderStatusInvalid 订单状态值无效
	ErrOrderStatusInvalid = errors.New("order status invalid")
	// ErrOrderTransitionInvalid 订单状态流转不允许
	ErrOrderTransitionInvalid = errors.New("order status transition not allowed")
	// ErrOrderNumberExhausted 订单号生成重试耗尽
	ErrOrderNumberExhausted = errors.New("order number attempts exhausted")

	// ErrCaptchaRequired 缺少验证码
	ErrCaptchaRequired = errors.New("captcha required")
	// ErrCaptchaInvalid 验证码错误
	ErrCaptchaInvalid = errors.New("captcha invalid")
	// ErrCaptchaDisabled 验证码未启用
	ErrCaptchaDisabled = errors.New("captcha disabled")

	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable 商品已下架
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrProductFieldsMissing 商品必填字段缺失
	ErrProductFieldsMissing = errors.New("product fields missing")
	// ErrProductPriceInvalid 商品价格无效
	ErrProductPriceInvalid = errors.New("product price invalid")
	// ErrCategoryInvalid 分类 slug 无效
	ErrCategoryInvalid = errors.New("category invalid")
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductSlugExists 商品 slug 已存在
	ErrProductSlugExists = errors.New("product slug exists")
	// ErrProductInUse 商品被订单引用
	ErrProductInUse = errors.New("product is used in an order")
	// ErrProductIDRequired 缺少商品 ID
	ErrProductIDRequired = errors.New("product id required")
	// ErrInventoryInvalid 库存参数无效
	ErrInventoryInvalid = errors.New("inventory invalid")
	// ErrUploadInvalid 上传文件无效
	ErrUploadInvalid = errors.New("upload invalid")

	// ErrEmailServiceDisabled 邮件服务未启用
	ErrEmailServiceDisabled = errors.New("email service disabled")
	// ErrEmailServiceNotConfigured 邮件服务配置不完整
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	// ErrEmailRecipientRejected 收件人被拒绝
	ErrEmailRecipientRejected = errors.New("email recipient rejected")
)
