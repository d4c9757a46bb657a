// Package utils provides common utility functions for the schedule-api
// application. It includes helper functions for loose type conversion used
// when decoding the generic XML tree into typed records.
package utils
