package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/plantworks/backend/internal/models"
)

type fakeStore struct {
	techs []models.Technician
	parts []models.Part

	techCalls  int
	partCalls  int
	createErr  error
	createErrs []error
	created    []models.WorkOrder
	listErr    error
}

func (f *fakeStore) ListTechniciansByStatus(ctx context.Context, status string) ([]models.Technician, error) {
	f.techCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.techs, nil
}

func (f *fakeStore) ListPartsByNumbers(ctx context.Context, numbers []string) ([]models.Part, error) {
	f.partCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.parts, nil
}

func (f *fakeStore) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) error {
	f.created = append(f.created, wo)
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	return f.createErr
}

func TestRankTechniciansSkillCountOutranksExperience(t *testing.T) {
	techs := []models.Technician{
		{ID: "T-001", Skills: []string{"thermal_controls", "plc_programming"}, YearsExperience: 5},
		{ID: "T-002", Skills: []string{"plc_programming"}, YearsExperience: 10},
	}
	ranked := RankTechnicians(techs, []string{"thermal_controls", "plc_programming"})
	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].ID != "T-001" || ranked[1].ID != "T-002" {
		t.Fatalf("expected [T-001 T-002], got [%s %s]", ranked[0].ID, ranked[1].ID)
	}
}

func TestRankTechniciansCaseInsensitive(t *testing.T) {
	techs := []models.Technician{
		{ID: "T-001", Skills: []string{"Thermal_Controls"}},
	}
	ranked := RankTechnicians(techs, []string{"thermal_controls"})
	if len(ranked) != 1 {
		t.Fatalf("expected case-insensitive match, got %d candidates", len(ranked))
	}
}

func TestRankTechniciansStableOnTies(t *testing.T) {
	techs := []models.Technician{
		{ID: "T-001", Skills: []string{"hydraulics"}, YearsExperience: 4},
		{ID: "T-002", Skills: []string{"hydraulics"}, YearsExperience: 4},
		{ID: "T-003", Skills: []string{"hydraulics"}, YearsExperience: 4},
	}
	for i := 0; i < 5; i++ {
		ranked := RankTechnicians(techs, []string{"hydraulics"})
		if ranked[0].ID != "T-001" || ranked[1].ID != "T-002" || ranked[2].ID != "T-003" {
			t.Fatalf("tie order not stable: %v", ranked)
		}
	}
}

func TestRankTechniciansFiltersNonMatching(t *testing.T) {
	techs := []models.Technician{
		{ID: "T-001", Skills: []string{"welding"}},
	}
	ranked := RankTechnicians(techs, []string{"hydraulics"})
	if len(ranked) != 0 {
		t.Fatalf("expected no candidates, got %v", ranked)
	}
}

func TestRankTechniciansEmptyRequiredSkills(t *testing.T) {
	techs := []models.Technician{{ID: "T-001", Skills: []string{"hydraulics"}}}
	ranked := RankTechnicians(techs, nil)
	if len(ranked) != 0 {
		t.Fatalf("expected empty result for empty required skills, got %v", ranked)
	}
}

func TestResolveEmptyPartNumbersSkipsQuery(t *testing.T) {
	store := &fakeStore{
		techs: []models.Technician{{ID: "T-001", Skills: []string{"hydraulics"}}},
	}
	p := &Planner{Store: store, Logger: zerolog.Nop()}

	res, err := p.resolve(context.Background(), []string{"hydraulics"}, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store.partCalls != 0 {
		t.Fatalf("expected no part query for empty input, got %d calls", store.partCalls)
	}
	if res.Parts == nil || len(res.Parts) != 0 {
		t.Fatalf("expected empty part list, got %v", res.Parts)
	}
	if len(res.Technicians) != 1 {
		t.Fatalf("expected 1 technician, got %d", len(res.Technicians))
	}
}

func TestResolveEmptySkillsSkipsTechnicianQuery(t *testing.T) {
	store := &fakeStore{}
	p := &Planner{Store: store, Logger: zerolog.Nop()}

	res, err := p.resolve(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store.techCalls != 0 {
		t.Fatalf("expected no technician query, got %d calls", store.techCalls)
	}
	if res.Technicians == nil || len(res.Technicians) != 0 {
		t.Fatalf("expected empty technician list, got %v", res.Technicians)
	}
}

func TestResolvePropagatesStoreError(t *testing.T) {
	boom := errors.New("store down")
	store := &fakeStore{listErr: boom}
	p := &Planner{Store: store, Logger: zerolog.Nop()}

	_, err := p.resolve(context.Background(), []string{"hydraulics"}, []string{"HYD-SEAL-23"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error propagated, got %v", err)
	}
}
