package notify

import "context"

// NopNotifier discards every notification. Used when no Slack token is
// configured.
type NopNotifier struct{}

func NewNopNotifier() *NopNotifier { return &NopNotifier{} }

func (NopNotifier) OrderCreated(context.Context, string)                 {}
func (NopNotifier) OrderCreateFailed(context.Context, string, string)    {}
func (NopNotifier) CustomerCreated(context.Context, string)              {}
func (NopNotifier) CustomerCreateFailed(context.Context, string, string) {}
func (NopNotifier) ProductCreated(context.Context, string)               {}
func (NopNotifier) ProductCreateFailed(context.Context, string, string)  {}
func (NopNotifier) OrderUpdated(context.Context, string)                 {}
func (NopNotifier) OrderUpdateFailed(context.Context, string, string)    {}
