// Where: internal/provider/instance.go
// What: Provider-neutral instance records.
// Why: Keep stop logic independent from SDK types.
package provider

// StateRunning is the instance state scanned by default.
const StateRunning = "running"

// Tag is a key/value label attached to an instance.
type Tag struct {
	Key   string
	Value string
}

// Instance is the subset of an instance description the stopper inspects.
type Instance struct {
	ID    string
	State string
	Tags  []Tag
}

// TagValue returns the value of the first tag with the given key.
// Returns "" when the instance carries no such tag.
func (i Instance) TagValue(key string) string {
	for _, tag := range i.Tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}
