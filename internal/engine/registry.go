package engine

import "github.com/wonny/horizon/backend/internal/contracts"

// ModelRecord is one group's committed fit artifact: the forecaster and the
// cutoff, the order-key of the last training observation, which anchors the
// relative-horizon coordinate system. Cutoffs are set by fitting only;
// inference never mutates them.
type ModelRecord struct {
	Group      contracts.GroupKey
	Forecaster contracts.Forecaster
	Cutoff     float64
}

// Registry 그룹별 모델 레코드 아레나
// 그룹 키는 적합 패스마다 한 번만 정수 id로 인턴되며, 레코드 전체가
// 아레나 소유다. 전체 교체만 있고 부분 갱신은 없다.
type Registry struct {
	ids     map[contracts.GroupKey]int
	records []ModelRecord
}

// NewRegistry 새 레지스트리 생성
func NewRegistry() *Registry {
	return &Registry{ids: make(map[contracts.GroupKey]int)}
}

// Intern returns the stable integer id of a group key, assigning one on
// first sight.
func (r *Registry) Intern(group contracts.GroupKey) int {
	if id, ok := r.ids[group]; ok {
		return id
	}
	id := len(r.records)
	r.ids[group] = id
	r.records = append(r.records, ModelRecord{Group: group})
	return id
}

// Upsert stores the fitted forecaster and cutoff for a group.
func (r *Registry) Upsert(group contracts.GroupKey, fc contracts.Forecaster, cutoff float64) {
	id := r.Intern(group)
	r.records[id].Forecaster = fc
	r.records[id].Cutoff = cutoff
}

// Get returns the forecaster and cutoff stored for a group.
func (r *Registry) Get(group contracts.GroupKey) (contracts.Forecaster, float64, bool) {
	id, ok := r.ids[group]
	if !ok || r.records[id].Forecaster == nil {
		return nil, 0, false
	}
	rec := r.records[id]
	return rec.Forecaster, rec.Cutoff, true
}

// HasFitted reports whether the group has a forecaster that reports itself
// as successfully fitted.
func (r *Registry) HasFitted(group contracts.GroupKey) bool {
	fc, _, ok := r.Get(group)
	return ok && fc.Fitted()
}

// Len is the number of groups with a stored forecaster.
func (r *Registry) Len() int {
	n := 0
	for _, rec := range r.records {
		if rec.Forecaster != nil {
			n++
		}
	}
	return n
}

// Groups returns the group keys with a stored forecaster, in intern order.
func (r *Registry) Groups() []contracts.GroupKey {
	out := make([]contracts.GroupKey, 0, len(r.records))
	for _, rec := range r.records {
		if rec.Forecaster != nil {
			out = append(out, rec.Group)
		}
	}
	return out
}
