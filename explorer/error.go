package explorer

import "fmt"

// Aggregates the errors that occurred while expanding one level of the state space
type explorationError struct {
	errorSlice []error
}

func (ee explorationError) Error() string {
	return fmt.Sprintf("Explorer: %v Errors occurred expanding configurations. \nError 1: %v", len(ee.errorSlice), ee.errorSlice[0])
}

func (ee explorationError) Unwrap() []error {
	return ee.errorSlice
}
