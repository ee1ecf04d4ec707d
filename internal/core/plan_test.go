package core

import (
	"reflect"
	"testing"
)

type fakePricer map[string][2]float64 // name -> {cost, latency}

func (f fakePricer) Price(name string) (float64, int, bool) {
	v, ok := f[name]
	if !ok {
		return 0, 0, false
	}
	return v[0], int(v[1]), true
}

func TestWorkflowPlan_Recalculate(t *testing.T) {
	pricer := fakePricer{
		"flux_dev": {0.03, 30},
		"luma_ray": {0.15, 150},
		"pika_v2":  {0.15, 120},
	}

	plan := &WorkflowPlan{
		ScenePlans: []*ScenePlan{
			{SceneNumber: 1, ImageTool: "flux_dev", VideoTool: "luma_ray"},
			{SceneNumber: 2, ImageTool: "flux_dev", VideoTool: "pika_v2"},
		},
	}
	plan.Recalculate(pricer)

	if plan.EstimatedCost != 0.03+0.15+0.03+0.15 {
		t.Fatalf("unexpected cost: %f", plan.EstimatedCost)
	}
	if plan.EstimatedTime != 30+150+30+120 {
		t.Fatalf("unexpected time: %d", plan.EstimatedTime)
	}
	if !reflect.DeepEqual(plan.ImageTools, []string{"flux_dev"}) {
		t.Fatalf("unexpected image tools: %v", plan.ImageTools)
	}
	if !reflect.DeepEqual(plan.VideoTools, []string{"luma_ray", "pika_v2"}) {
		t.Fatalf("unexpected video tools: %v", plan.VideoTools)
	}
}

func TestWorkflowPlan_RecalculateIsIdempotent(t *testing.T) {
	pricer := fakePricer{"flux_dev": {0.03, 30}, "wan_i2v": {0.08, 60}}
	plan := &WorkflowPlan{
		ScenePlans: []*ScenePlan{{SceneNumber: 1, ImageTool: "flux_dev", VideoTool: "wan_i2v"}},
	}
	plan.Recalculate(pricer)
	first, firstTime := plan.EstimatedCost, plan.EstimatedTime
	plan.Recalculate(pricer)
	if plan.EstimatedCost != first || plan.EstimatedTime != firstTime {
		t.Fatal("recalculation drifted between identical invocations")
	}
}

func TestWorkflowPlan_RecalculateIgnoresUnknownTools(t *testing.T) {
	plan := &WorkflowPlan{
		ScenePlans: []*ScenePlan{{SceneNumber: 1, ImageTool: "ghost", VideoTool: "phantom"}},
	}
	plan.Recalculate(fakePricer{})
	if plan.EstimatedCost != 0 || plan.EstimatedTime != 0 {
		t.Fatalf("unknown tools must not contribute: cost=%f time=%d", plan.EstimatedCost, plan.EstimatedTime)
	}
}

func TestWorkflowPlan_SceneLookupAndWarnings(t *testing.T) {
	plan := &WorkflowPlan{
		ScenePlans: []*ScenePlan{{SceneNumber: 3, ImageTool: "flux_dev", VideoTool: "wan_i2v"}},
	}
	if plan.Scene(3) == nil {
		t.Fatal("expected scene 3 to be found")
	}
	if plan.Scene(4) != nil {
		t.Fatal("expected nil for missing scene")
	}

	plan.Warn(KindBudgetInfeasible, "cheapest tier still over budget")
	if !plan.HasWarning(KindBudgetInfeasible) {
		t.Fatal("expected budget warning recorded")
	}
	if plan.HasWarning(KindTimeInfeasible) {
		t.Fatal("unexpected time warning")
	}
}

func TestShotGroup_Anchor(t *testing.T) {
	g := ShotGroup{ID: 2, SceneNumbers: []int{4, 5, 6}}
	if g.Anchor() != 4 {
		t.Fatalf("expected anchor 4, got %d", g.Anchor())
	}
	if !g.Contains(5) || g.Contains(7) {
		t.Fatal("membership check failed")
	}
	if (ShotGroup{}).Anchor() != 0 {
		t.Fatal("empty group anchor must be 0")
	}
}

func TestContentType_IsHuman(t *testing.T) {
	human := []ContentType{ContentHumanPortrait, ContentHumanAction}
	other := []ContentType{ContentObject, ContentProduct, ContentFood, ContentNature, ContentText, ContentTransition, ContentAbstract}
	for _, c := range human {
		if !c.IsHuman() {
			t.Errorf("%s should be human", c)
		}
	}
	for _, c := range other {
		if c.IsHuman() {
			t.Errorf("%s should not be human", c)
		}
	}
}
