package domain

import "errors"

var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrPlanExists    = errors.New("plan already exists")
	ErrNameImmutable = errors.New("plan name cannot be changed")
	ErrInvalidPlan   = errors.New("invalid plan")
)
