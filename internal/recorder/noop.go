package recorder

// NoopRecorder is a no-op implementation used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSale(_ *SaleEvent) error           { return nil }
func (n *NoopRecorder) RecordPurchase(_ *PurchaseEvent) error   { return nil }
func (n *NoopRecorder) RecordDiscovery(_ *DiscoveryEvent) error { return nil }
func (n *NoopRecorder) RecordLevel(_ *LevelEvent) error         { return nil }
func (n *NoopRecorder) Close() error                            { return nil }
