package meter

import (
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	want := Config{
		Variant:   Vertical,
		Position:  0,
		Thickness: 10,
		MinDB:     -60,
		MaxDB:     0,
		Scale:     Logarithmic,
		Gamma:     2.8,
		Opacity:   100,
	}
	if got := DefaultConfig(); got != want {
		t.Fatalf("DefaultConfig() = %+v, want %+v", got, want)
	}
}

func TestNewConfigClamps(t *testing.T) {
	cfg := NewConfig(
		WithPosition(73.6),
		WithThickness(2),
		WithRange(-500, 99),
		WithGamma(9),
		WithOpacity(0.2),
	)
	if cfg.Position != 50 {
		t.Fatalf("Position = %d, want 50", cfg.Position)
	}
	if cfg.Thickness != 4 {
		t.Fatalf("Thickness = %d, want 4", cfg.Thickness)
	}
	if cfg.MinDB != -120 || cfg.MaxDB != 20 {
		t.Fatalf("range = [%v, %v], want [-120, 20]", cfg.MinDB, cfg.MaxDB)
	}
	if cfg.Gamma != 6 {
		t.Fatalf("Gamma = %v, want 6", cfg.Gamma)
	}
	if cfg.Opacity != 1 {
		t.Fatalf("Opacity = %d, want 1", cfg.Opacity)
	}
}

func TestNewConfigRoundsAndFloors(t *testing.T) {
	cfg := NewConfig(WithPosition(-12.5), WithThickness(11.9), WithOpacity(59.5))
	if cfg.Position != -12 {
		t.Fatalf("Position = %d, want -12", cfg.Position)
	}
	if cfg.Thickness != 11 {
		t.Fatalf("Thickness = %d, want 11", cfg.Thickness)
	}
	if cfg.Opacity != 60 {
		t.Fatalf("Opacity = %d, want 60", cfg.Opacity)
	}
}

func TestNewConfigRepairsInvertedRange(t *testing.T) {
	cfg := NewConfig(WithRange(-10, -20))
	if cfg.MaxDB != -20 || cfg.MinDB != -21 {
		t.Fatalf("range = [%v, %v], want [-21, -20]", cfg.MinDB, cfg.MaxDB)
	}

	cfg = NewConfig(WithRange(-1, -60))
	if cfg.MinDB >= cfg.MaxDB {
		t.Fatalf("range = [%v, %v] is not ordered", cfg.MinDB, cfg.MaxDB)
	}
}

func TestNewConfigNonFiniteFallsBack(t *testing.T) {
	nan := math.NaN()
	cfg := NewConfig(
		WithPosition(nan),
		WithThickness(math.Inf(1)),
		WithRange(nan, math.Inf(-1)),
		WithGamma(nan),
		WithOpacity(nan),
	)
	if cfg != DefaultConfig() {
		t.Fatalf("NewConfig(non-finite) = %+v, want defaults", cfg)
	}
}

func TestParseVariantAndScale(t *testing.T) {
	if ParseVariant("h") != Horizontal || ParseVariant("Horizontal") != Horizontal {
		t.Fatal("expected horizontal")
	}
	if ParseVariant("v") != Vertical || ParseVariant("bogus") != Vertical {
		t.Fatal("expected vertical")
	}
	if ParseScale("linear") != Linear || ParseScale(" LINEAR ") != Linear {
		t.Fatal("expected linear")
	}
	if ParseScale("log") != Logarithmic || ParseScale("") != Logarithmic {
		t.Fatal("expected logarithmic")
	}
}

func TestConfigAlpha(t *testing.T) {
	if got := NewConfig(WithOpacity(60)).Alpha(); got != 153 {
		t.Fatalf("Alpha() = %d, want 153", got)
	}
	if got := NewConfig().Alpha(); got != 255 {
		t.Fatalf("Alpha() = %d, want 255", got)
	}
}
