package directory_test

import (
	"testing"

	"github.com/orgstack/orghub/internal/directory"
	"github.com/stretchr/testify/assert"
)

func TestDerivePartitionID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "tesla", "org_tesla"},
		{"uppercase", "Tesla", "org_tesla"},
		{"spaces", "Tesla Motors", "org_tesla_motors"},
		{"surrounding whitespace", "  Tesla  ", "org_tesla"},
		{"multiple inner spaces", "A B C", "org_a_b_c"},
		{"already normalized", "org_tesla", "org_org_tesla"},
		{"empty", "", "org_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, directory.DerivePartitionID(tt.in))
		})
	}
}

func TestDerivePartitionID_Deterministic(t *testing.T) {
	assert.Equal(t,
		directory.DerivePartitionID("Tesla Motors"),
		directory.DerivePartitionID("Tesla Motors"))

	// Distinct names may collide after normalization; the directory does
	// not detect this.
	assert.Equal(t,
		directory.DerivePartitionID("Tesla Motors"),
		directory.DerivePartitionID(" TESLA motors "))
}
