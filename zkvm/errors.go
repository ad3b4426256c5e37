package zkvm

import "fmt"

// ConfigError reports an internally inconsistent circuit configuration.
// It is returned from Compile; there is no valid circuit to return and the
// caller must fix the configuration.
type ConfigError struct {
	// Param is the name of the offending configuration field.
	Param string
	// Expected describes the constraint that was violated.
	Expected string
	// Actual is the offending value.
	Actual string
}

// Error implements the error interface.
func (e ConfigError) Error() string {
	return fmt.Sprintf("zkvm: invalid %s: expected %s, got %s", e.Param, e.Expected, e.Actual)
}

func configError(param string, expected string, actual any) ConfigError {
	return ConfigError{Param: param, Expected: expected, Actual: fmt.Sprint(actual)}
}
