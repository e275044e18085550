package rabbitmq

import "storefront-orders/internal/infra/bus"

var _ bus.Bus = (*Broker)(nil)
