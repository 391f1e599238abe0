package i18n

var enMessages = map[string]string{
	"error.bad_request":            "Invalid request",
	"error.internal":               "Something went wrong",
	"error.unauthorized":           "Unauthorized",
	"error.rate_limited":           "Too many requests, please retry in %d seconds",
	"error.auth_header_missing":    "Missing authorization header",
	"error.auth_header_invalid":    "Invalid authorization header",
	"error.token_invalid":          "Session is invalid or expired",
	"error.jwt_secret_missing":     "Session signing key is not configured",
	"error.admin_required":         "Unauthorized",

	"error.email_invalid":            "Invalid email address",
	"error.email_taken":              "Email is already registered",
	"error.password_too_short":       "Password must be at least %d characters",
	"error.login_invalid":            "Invalid email or password",
	"error.customer_email_required":  "Missing required fields: customerEmail",
	"error.address_required":         "Missing required fields: address",
	"error.city_required":            "Missing required fields: city",
	"error.cart_empty":               "Cart is empty",
	"error.order_item_invalid":       "Invalid order item",
	"error.order_not_found":          "Order not found",
	"error.order_id_required":        "Missing order id",
	"error.order_status_invalid":     "Invalid status",
	"error.order_transition_invalid": "Status change is not allowed",
	"error.order_number_exhausted":   "Could not allocate an order number, please retry",
	"error.captcha_required":         "Captcha is required",
	"error.captcha_invalid":          "Captcha is invalid",
	"error.captcha_disabled":         "Captcha is not enabled",

	"error.cart_token_invalid":     "Invalid cart token",
	"error.cart_item_not_found":    "Item is not in the cart",
	"error.product_not_found":      "Product not found",
	"error.product_id_invalid":     "Invalid product id",
	"error.product_unavailable":    "Product is not available",
	"error.product_fields_missing": "Missing fields",
	"error.product_price_invalid":  "Price must be a positive number",
	"error.category_invalid":       "Invalid category",
	"error.category_not_found":     "Category not found",
	"error.product_slug_exists":    "A product with this name already exists",
	"error.product_in_use":         "Cannot delete. Product is used in an order.",
	"error.product_id_required":    "Missing product id",
	"error.inventory_invalid":      "Invalid inventory values",
	"error.upload_invalid":         "Invalid image upload",

	"order.status.processing": "Processing",
	"order.status.shipped":    "Shipped",
	"order.status.delivered":  "Delivered",
	"order.status.cancelled":  "Cancelled",

	"email.order_created.subject":  "Order %s received",
	"email.order_created.body":     "Thank you for your order.\n\nOrder No: %s\nItems:\n%s\nSubtotal: %s %s\nShipping: %s %s\nTotal: %s %s\n\nWe will let you know when it ships.",
	"email.order_status.subject":   "Order status updated: %s",
	"email.order_status.body":      "Order No: %s\nStatus: %s\nTotal: %s %s",
	"email.order_status.tracking":  "Tracking number: %s",
	"email.order_status.track_url": "Track your parcel: %s",
	"email.order_status.cancelled": "The order has been cancelled. Reply to this e-mail if you have any questions.",
}
