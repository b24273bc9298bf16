package debate

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// now returns the current time formatted for storage.
func now() string {
	return timeNow().UTC().Format(timeLayout)
}
