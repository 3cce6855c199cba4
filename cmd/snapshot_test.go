/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"testing"
	"time"
)

func TestSnapshotCmd_Flags(t *testing.T) {
	tests := []struct {
		name         string
		flagName     string
		defaultValue interface{}
		flagType     string
	}{
		{
			name:         "id flag has correct default",
			flagName:     "id",
			defaultValue: int64(0),
			flagType:     "int64",
		},
		{
			name:         "requeue flag has correct default",
			flagName:     "requeue",
			defaultValue: int64(0),
			flagType:     "int64",
		},
		{
			name:         "limit flag has correct default",
			flagName:     "limit",
			defaultValue: 0,
			flagType:     "int",
		},
		{
			name:         "timeout flag has correct default",
			flagName:     "timeout",
			defaultValue: 40 * time.Second,
			flagType:     "duration",
		},
		{
			name:         "wait-selector flag has correct default",
			flagName:     "wait-selector",
			defaultValue: "",
			flagType:     "string",
		},
		{
			name:         "chrome-path flag has correct default",
			flagName:     "chrome-path",
			defaultValue: "",
			flagType:     "string",
		},
		{
			name:         "headful flag has correct default",
			flagName:     "headful",
			defaultValue: false,
			flagType:     "bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag interface{}
			var err error

			switch tt.flagType {
			case "string":
				flag, err = snapshotCmd.Flags().GetString(tt.flagName)
			case "int":
				flag, err = snapshotCmd.Flags().GetInt(tt.flagName)
			case "int64":
				flag, err = snapshotCmd.Flags().GetInt64(tt.flagName)
			case "bool":
				flag, err = snapshotCmd.Flags().GetBool(tt.flagName)
			case "duration":
				flag, err = snapshotCmd.Flags().GetDuration(tt.flagName)
			}

			if err != nil {
				t.Fatalf("Failed to get flag %s: %v", tt.flagName, err)
			}

			if flag != tt.defaultValue {
				t.Errorf("Flag %s: got %v, want %v", tt.flagName, flag, tt.defaultValue)
			}
		})
	}
}
