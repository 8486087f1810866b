package events

// Topics emitted by the POS domain.
const (
	// TopicOrderFinalized fires once per checked-out order.
	TopicOrderFinalized = "order.finalized"
	// TopicMuffinsBaked fires when a bake run restocks the muffin tray.
	TopicMuffinsBaked = "muffins.baked"
	// TopicPriceUpdated fires when an item's list price changes.
	TopicPriceUpdated = "price.updated"
)
