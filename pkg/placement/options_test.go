package placement

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/scenegen/pkg/errors"
)

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.WithDefaults()
	want := Options{
		Count:          DefaultCount,
		LogMean:        Float(DefaultLogMean),
		LogStdDev:      DefaultLogStdDev,
		Extent:         DefaultExtent,
		Clearance:      DefaultClearance,
		BoxMinScale:    DefaultBoxMinScale,
		SphereMinScale: DefaultSphereMinScale,
		SphereYFactor:  DefaultSphereYFactor,
		LopsidedRatio:  DefaultLopsidedRatio,
	}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("WithDefaults() mismatch (-want +got):\n%s", diff)
	}

	custom := Options{Count: 4, MaxAttempts: 100, Extent: 2}.WithDefaults()
	if custom.Count != 4 || custom.MaxAttempts != 100 || custom.Extent != 2 {
		t.Errorf("WithDefaults() overwrote explicit fields: %+v", custom)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"capped", Options{MaxAttempts: 10}, false},
		{"negative count", Options{Count: -3}, true},
		{"negative attempts", Options{MaxAttempts: -1}, true},
		{"negative stddev", Options{LogStdDev: -0.5}, true},
		{"negative extent", Options{Extent: -1}, true},
		{"clearance above one", Options{Clearance: 1.5}, true},
		{"box threshold above one", Options{BoxMinScale: 1.2}, true},
		{"negative sphere threshold", Options{SphereMinScale: -0.8}, true},
		{"lopsided ratio below one", Options{LopsidedRatio: 0.5}, true},
		{"zero log mean", Options{LogMean: Float(0)}, false},
		{"infinite log mean", Options{LogMean: Float(math.Inf(1))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.WithDefaults().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidOptions) {
				t.Errorf("Validate() code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidOptions)
			}
		})
	}
}

func TestOptionsMinScale(t *testing.T) {
	o := Options{}.WithDefaults()
	if got := o.MinScale(Box); got != 0.5 {
		t.Errorf("MinScale(Box) = %v, want 0.5", got)
	}
	if got := o.MinScale(Sphere); got != 0.8 {
		t.Errorf("MinScale(Sphere) = %v, want 0.8", got)
	}
}

func TestZeroLogMeanIsKept(t *testing.T) {
	o := Options{LogMean: Float(0)}.WithDefaults()
	if o.Mean() != 0 {
		t.Fatalf("Mean() = %v, want 0", o.Mean())
	}
	if m := (Options{}).Mean(); m != DefaultLogMean {
		t.Errorf("unset Mean() = %v, want %v", m, DefaultLogMean)
	}

	// A zero mean survives a JSON round trip and yields extents near 1.
	data, err := json.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	var back Options
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.LogMean == nil || *back.LogMean != 0 {
		t.Fatalf("decoded log_mean = %v, want 0", back.LogMean)
	}

	set, err := Generate(context.Background(), NewSampler(3), Options{Count: 1, LogMean: Float(0)})
	if err != nil {
		t.Fatal(err)
	}
	if got := set.Items[0].Sampled.Max(); got < 0.1 {
		t.Errorf("sampled extent %v is far below the median of 1", got)
	}
}
