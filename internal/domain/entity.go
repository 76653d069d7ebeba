package domain

// EntityKind identifies an entity type in the cascade cleanup graph. The set
// is closed: cleanup dispatches over these kinds only.
type EntityKind string

const (
	KindPost         EntityKind = "post"
	KindComment      EntityKind = "comment"
	KindTag          EntityKind = "tag"
	KindUser         EntityKind = "user"
	KindNotification EntityKind = "notification"
	KindPodcast      EntityKind = "podcast"
)
