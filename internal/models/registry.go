package models

import "github.com/wonny/horizon/backend/internal/contracts"

// Constructor builds a model instance from keyword options.
type Constructor func(opts contracts.ModelOptions) contracts.Forecaster

// constructors 패밀리 태그 → 생성자 레지스트리
// 런타임 리플렉션 없이 정적 테이블로만 해석한다
var constructors = map[contracts.FamilyTag]Constructor{
	contracts.FamilyNaive:         NewNaive,
	contracts.FamilyCroston:       NewCroston,
	contracts.FamilyTheta:         NewTheta,
	contracts.FamilySeasonalTrend: NewSeasonalTrend,
	contracts.FamilyPolyTrend:     NewPolyTrend,
	contracts.FamilyAutoARIMA:     NewAutoARIMA,
}

// Resolve maps a family tag to its constructor. Unknown tags fall back to
// the auto-ARIMA family instead of failing, and the effective tag is
// returned so callers can log the substitution.
func Resolve(tag contracts.FamilyTag) (Constructor, contracts.FamilyTag) {
	if ctor, ok := constructors[tag]; ok {
		return ctor, tag
	}
	return constructors[contracts.FamilyAutoARIMA], contracts.FamilyAutoARIMA
}

// Known reports whether the tag resolves without fallback.
func Known(tag contracts.FamilyTag) bool {
	_, ok := constructors[tag]
	return ok
}
