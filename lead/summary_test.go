package lead

import "testing"

func TestSummarize(t *testing.T) {
	t.Parallel()

	leads := []Lead{
		{ID: "a", Score: Score{TotalScore: 90, Qualification: Hot}},
		{ID: "b", Score: Score{TotalScore: 70, Qualification: Warm}},
		{ID: "c", Score: Score{TotalScore: 40, Qualification: Cold}},
		{ID: "d", Score: Score{TotalScore: 60, Qualification: Warm}},
	}

	got := Summarize(leads)
	want := Summary{Total: 4, Hot: 1, Warm: 2, Cold: 1, AverageScore: 65}
	if got != want {
		t.Fatalf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	if got := Summarize(nil); got != (Summary{}) {
		t.Fatalf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestRankIsStableAndDescending(t *testing.T) {
	t.Parallel()

	leads := []Lead{
		{ID: "low", Score: Score{TotalScore: 30}},
		{ID: "first-tie", Score: Score{TotalScore: 75}},
		{ID: "top", Score: Score{TotalScore: 95}},
		{ID: "second-tie", Score: Score{TotalScore: 75}},
	}

	ranked := Rank(leads)
	wantOrder := []string{"top", "first-tie", "second-tie", "low"}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Fatalf("Rank()[%d] = %s, want %s", i, ranked[i].ID, id)
		}
	}
	if leads[0].ID != "low" {
		t.Fatalf("Rank() mutated its input")
	}
}
