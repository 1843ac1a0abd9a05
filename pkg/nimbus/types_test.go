package nimbus_test

import (
	"testing"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDatabases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"comma separated", []string{"postgresql,mongodb"}, []string{"postgresql", "mongodb"}},
		{"mixed separators", []string{"postgresql  ,mongodb redis"}, []string{"postgresql", "mongodb", "redis"}},
		{"none discards everything", []string{"postgresql", "none"}, []string{}},
		{"none first", []string{"none", "redis"}, []string{}},
		{"empty input", nil, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, nimbus.NormalizeDatabases(tt.tokens))
		})
	}
}

func TestPlacement(t *testing.T) {
	t.Parallel()

	var none nimbus.Placement
	assert.True(t, none.IsZero())

	region := nimbus.RegionPlacement("EU")
	r, ok := region.Region()
	assert.True(t, ok)
	assert.Equal(t, "EU", r)
	_, ok = region.Zone()
	assert.False(t, ok)

	zone := nimbus.ZonePlacement("eu1-a")
	z, ok := zone.Zone()
	assert.True(t, ok)
	assert.Equal(t, "eu1-a", z)
	_, ok = zone.Region()
	assert.False(t, ok)
}

func TestNewCloudCreateRequest(t *testing.T) {
	t.Parallel()

	req := nimbus.NewCloudCreateRequest("foo", []string{"postgresql"}, "small", "acme", nimbus.RegionPlacement("EU"))
	assert.Equal(t, "EU", req.Region)
	assert.Empty(t, req.Zone)

	req = nimbus.NewCloudCreateRequest("foo", nil, "large", "acme", nimbus.ZonePlacement("eu1-a"))
	assert.Empty(t, req.Region)
	assert.Equal(t, "eu1-a", req.Zone)
}

func TestDeploymentTerminal(t *testing.T) {
	t.Parallel()

	running := &nimbus.Deployment{State: nimbus.DeploymentRunning}
	assert.False(t, running.Terminal())

	finished := &nimbus.Deployment{State: nimbus.DeploymentFinished, Result: "success"}
	assert.True(t, finished.Terminal())
	assert.True(t, finished.Succeeded())

	failed := &nimbus.Deployment{State: nimbus.DeploymentFailed, Result: "failure"}
	assert.True(t, failed.Terminal())
	assert.False(t, failed.Succeeded())
}

func TestEnumMembership(t *testing.T) {
	t.Parallel()

	assert.True(t, nimbus.ValidDatabase("postgresql"))
	assert.True(t, nimbus.ValidDatabase("none"))
	assert.False(t, nimbus.ValidDatabase("PostgreSQL"))
	assert.False(t, nimbus.ValidDatabase("sqlite"))

	assert.True(t, nimbus.ValidRegion("EU"))
	assert.False(t, nimbus.ValidRegion("eu"))
	assert.False(t, nimbus.ValidRegion("ASIA"))

	assert.True(t, nimbus.ValidSize("small"))
	assert.False(t, nimbus.ValidSize("medium"))
}
