package services

import (
	"math"

	"permiso_backend/internal/dto"
)

// EstimateService computes cost and timeline estimates from project
// parameters. It is a pure calculation with no storage behind it.
type EstimateService interface {
	Estimate(req *dto.EstimateRequest) *dto.EstimateResult
}

var baseCosts = map[string]float64{
	"building":    50000,
	"renovation":  25000,
	"commercial":  75000,
	"residential": 30000,
	"other":       20000,
}

var baseTimelines = map[string]float64{
	"building":    120,
	"renovation":  60,
	"commercial":  150,
	"residential": 90,
	"other":       45,
}

var complexityMultipliers = map[string]float64{
	"low":    0.8,
	"medium": 1.0,
	"high":   1.5,
	"urgent": 2.0,
}

type estimateService struct{}

func NewEstimateService() EstimateService {
	return &estimateService{}
}

func (s *estimateService) Estimate(req *dto.EstimateRequest) *dto.EstimateResult {
	baseCost, ok := baseCosts[req.ProjectType]
	if !ok {
		baseCost = 20000
	}
	baseTimeline, ok := baseTimelines[req.ProjectType]
	if !ok {
		baseTimeline = 60
	}
	complexity, ok := complexityMultipliers[req.Complexity]
	if !ok {
		complexity = 1.0
	}

	// Size is in square feet; the multiplier is clamped so extreme inputs
	// cannot blow the estimate up or down.
	sizeMultiplier := math.Max(0.5, math.Min(2.0, req.Size/1000))

	return &dto.EstimateResult{
		Cost:     int(math.Round(baseCost * complexity * sizeMultiplier)),
		Timeline: int(math.Round(baseTimeline * complexity)),
		Breakdown: dto.EstimateBreakdown{
			BaseCost:             baseCost,
			ComplexityMultiplier: complexity,
			SizeMultiplier:       sizeMultiplier,
			ProjectType:          req.ProjectType,
			Location:             req.Location,
		},
	}
}
