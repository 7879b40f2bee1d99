package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	// Import rule groups - each registers its rules via init()
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules/effects"
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules/reducer"
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules/store"
)
