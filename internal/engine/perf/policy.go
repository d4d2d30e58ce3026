package perf

import (
	"fmt"
	"strings"
)

// Quality is the shading level applied to the model.
type Quality int

const (
	QualityFull Quality = iota
	QualityReduced
)

func (q Quality) String() string {
	if q == QualityReduced {
		return "reduced"
	}
	return "full"
}

// Triangle budgets of the built-in profiles.
const (
	LowTriangles      = 50_000
	BalancedTriangles = 100_000
	HighTriangles     = 500_000
)

// Frame rates between which the current quality is kept.
const (
	DefaultMinFPS     = 24.0
	DefaultRecoverFPS = 45.0
)

// Policy is a threshold comparison on triangle count and frame rate.
type Policy struct {
	// FullQualityTriangles is the largest model always drawn at full quality.
	FullQualityTriangles int
	// MinFPS: below it, large models are reduced.
	MinFPS float64
	// RecoverFPS: at or above it, reduced models go back to full quality.
	RecoverFPS float64
}

// DefaultPolicy is the balanced profile.
func DefaultPolicy() Policy {
	p, _ := Profile("balanced")
	return p
}

// Profile returns a built-in policy by name: low, balanced or high.
func Profile(name string) (Policy, error) {
	var tris int
	switch strings.ToLower(name) {
	case "low":
		tris = LowTriangles
	case "", "balanced":
		tris = BalancedTriangles
	case "high":
		tris = HighTriangles
	default:
		return Policy{}, fmt.Errorf("unknown quality profile %q", name)
	}
	return Policy{
		FullQualityTriangles: tris,
		MinFPS:               DefaultMinFPS,
		RecoverFPS:           DefaultRecoverFPS,
	}, nil
}

// Decide picks the quality for a model of triangles at fps, given the
// quality currently applied.
func (p Policy) Decide(triangles int, fps float64, current Quality) Quality {
	if triangles <= p.FullQualityTriangles {
		return QualityFull
	}
	switch {
	case fps < p.MinFPS:
		return QualityReduced
	case fps >= p.RecoverFPS:
		return QualityFull
	default:
		return current
	}
}
