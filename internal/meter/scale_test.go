package meter

import (
	"math"
	"testing"
)

func TestMapperRoundTrip(t *testing.T) {
	ranges := [][2]float64{{-60, 0}, {-120, 20}, {-80, -10}, {-2, -1}}
	gammas := []float64{1.2, 2, 2.8, 4.5, 6}

	for _, rng := range ranges {
		for _, scale := range []Scale{Linear, Logarithmic} {
			for _, g := range gammas {
				m := Mapper{MinDB: rng[0], MaxDB: rng[1], Scale: scale, Gamma: g}
				for i := 0; i <= 200; i++ {
					db := rng[0] + (rng[1]-rng[0])*float64(i)/200
					got := m.DB(m.Position(db))
					if diff := math.Abs(got - db); diff > 1e-6*math.Max(1, math.Abs(db)) {
						t.Fatalf("%v gamma %v range %v: DB(Position(%v)) = %v", scale, g, rng, db, got)
					}
				}
			}
		}
	}
}

func TestMapperPosition(t *testing.T) {
	lin := Mapper{MinDB: -60, MaxDB: 0, Scale: Linear, Gamma: 2.8}
	log := Mapper{MinDB: -60, MaxDB: 0, Scale: Logarithmic, Gamma: 2}

	tests := []struct {
		name string
		m    Mapper
		db   float64
		want float64
	}{
		{name: "linear floor", m: lin, db: -60, want: 0},
		{name: "linear below floor", m: lin, db: -80, want: 0},
		{name: "linear midpoint", m: lin, db: -30, want: 0.5},
		{name: "linear top", m: lin, db: 0, want: 1},
		{name: "linear above top", m: lin, db: 12, want: 1},
		{name: "log midpoint", m: log, db: -30, want: 0.25},
		{name: "nan", m: lin, db: math.NaN(), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Position(tt.db); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Position(%v) = %v, want %v", tt.db, got, tt.want)
			}
		})
	}
}

func TestMapperGammaCompressesLowLevels(t *testing.T) {
	lin := Mapper{MinDB: -60, MaxDB: 0, Scale: Linear}
	log := Mapper{MinDB: -60, MaxDB: 0, Scale: Logarithmic, Gamma: 2.8}
	for _, db := range []float64{-50, -30, -10} {
		if log.Position(db) >= lin.Position(db) {
			t.Fatalf("log position %v should sit below linear %v at %v dB", log.Position(db), lin.Position(db), db)
		}
	}
}

func TestMapperDBClampsPosition(t *testing.T) {
	m := Mapper{MinDB: -60, MaxDB: 0, Scale: Logarithmic, Gamma: 2.8}
	if got := m.DB(-0.5); got != -60 {
		t.Fatalf("DB(-0.5) = %v, want -60", got)
	}
	if got := m.DB(1.5); got != 0 {
		t.Fatalf("DB(1.5) = %v, want 0", got)
	}
}
