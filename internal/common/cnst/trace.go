package cnst

// Tracer names
const (
	TraceService = "eliteshop/service"
	TraceStore   = "eliteshop/store"
)

// Span names
const (
	SpanStoreInit      = "store.init"
	SpanSignUp         = "service.signup"
	SpanLogin          = "service.login"
	SpanPlaceOrder     = "service.place_order"
	SpanUpdateOrder    = "service.update_order_status"
	SpanBroadcastEvent = "service.broadcast_event"
	SpanExportOrders   = "service.export_orders"
)

// Attribute keys
const (
	AttrUserID      = "shop.user_id"
	AttrOrderID     = "shop.order_id"
	AttrProductID   = "shop.product_id"
	AttrOrderStatus = "shop.order_status"
	AttrOrderTotal  = "shop.order_total"
	AttrStorageKey  = "shop.storage_key"
	AttrErrorReason = "error.reason"
)
