package workflow

// Trigger represents an event that can move the claim between sections
type Trigger string

// TriggerComplete fires when the inputs of the current section are filled in
const TriggerComplete Trigger = "COMPLETE"

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
