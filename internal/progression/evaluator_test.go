package progression

import "testing"

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name       string
		correct    []bool
		wantScore  int
		wantPassed bool
	}{
		{"all correct", []bool{true, true, true}, 100, true},
		{"all wrong", []bool{false, false, false}, 0, false},
		{"two of three", []bool{true, false, true}, 67, false},
		{"empty set scores zero", nil, 0, false},
		{"exactly at threshold", []bool{true, true, true, true, true, true, true, false, false, false}, 70, true},
		{"just below threshold", []bool{true, true, false}, 67, false},
		{"half", []bool{true, false}, 50, false},
		{"three of four", []bool{true, true, true, false}, 75, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.correct)
			if got.Score != tc.wantScore {
				t.Errorf("Evaluate(%v).Score = %d, want %d", tc.correct, got.Score, tc.wantScore)
			}
			if got.Passed != tc.wantPassed {
				t.Errorf("Evaluate(%v).Passed = %v, want %v", tc.correct, got.Passed, tc.wantPassed)
			}
		})
	}
}

func TestEvaluatePassedMatchesThresholdEverywhere(t *testing.T) {
	// passed == (score >= 70) 对所有 0-100 的得分成立
	for n := 0; n <= 100; n++ {
		correct := make([]bool, 100)
		for i := 0; i < n; i++ {
			correct[i] = true
		}
		r := Evaluate(correct)
		if r.Score != n {
			t.Fatalf("expected score %d, got %d", n, r.Score)
		}
		if r.Passed != (n >= PassThreshold) {
			t.Errorf("score %d: Passed = %v, want %v", n, r.Passed, n >= PassThreshold)
		}
	}
}

func TestEvaluateCorrectCount(t *testing.T) {
	r := Evaluate([]bool{true, false, true, false, false})
	if r.Correct != 2 || r.Total != 5 {
		t.Errorf("got correct=%d total=%d, want 2/5", r.Correct, r.Total)
	}
	if r.Score != 40 {
		t.Errorf("got score %d, want 40", r.Score)
	}
}
