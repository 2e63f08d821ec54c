package guardian

import (
	"math/rand"
	"reflect"
	"testing"
)

func pass(id string) NodeResult { return NodeResult{NodeID: id, Passed: true} }

func fail(id string) NodeResult {
	return NodeResult{NodeID: id, Failure: FailureCryptographicMismatch, Reason: ErrSignatureMismatch.Error()}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		results []NodeResult
		policy  QuorumPolicy
		success bool
		count   int
		errors  []string
		details map[string]bool
	}{
		{
			name:    "required plus one",
			results: []NodeResult{pass("hl-node"), pass("field-node")},
			policy:  DefaultQuorumPolicy(),
			success: true,
			count:   2,
			errors:  []string{},
			details: map[string]bool{"field-node": true, "hl-node": true},
		},
		{
			name:    "required failed",
			results: []NodeResult{fail("field-node"), pass("hl-node"), pass("unit-node")},
			policy:  DefaultQuorumPolicy(),
			success: false,
			count:   2,
			errors:  []string{"field-node: signature does not verify"},
			details: map[string]bool{"field-node": false, "hl-node": true, "unit-node": true},
		},
		{
			name:    "required missing",
			results: []NodeResult{pass("hl-node"), pass("unit-node")},
			policy:  DefaultQuorumPolicy(),
			success: false,
			count:   2,
			errors:  []string{"field-node: required guardian signature missing"},
			details: map[string]bool{"hl-node": true, "unit-node": true},
		},
		{
			name:    "additional short",
			results: []NodeResult{pass("field-node"), fail("hl-node")},
			policy:  DefaultQuorumPolicy(),
			success: false,
			count:   1,
			errors: []string{
				"hl-node: signature does not verify",
				"quorum not reached: 0 of 1 additional guardian signatures verified",
			},
			details: map[string]bool{"field-node": true, "hl-node": false},
		},
		{
			name:    "stricter policy",
			results: []NodeResult{pass("field-node"), pass("hl-node"), fail("unit-node")},
			policy:  QuorumPolicy{Required: []string{"field-node"}, MinAdditional: 2},
			success: false,
			count:   2,
			errors: []string{
				"unit-node: signature does not verify",
				"quorum not reached: 1 of 2 additional guardian signatures verified",
			},
			details: map[string]bool{"field-node": true, "hl-node": true, "unit-node": false},
		},
		{
			name:    "two required",
			results: []NodeResult{pass("field-node"), pass("unit-node")},
			policy:  QuorumPolicy{Required: []string{"unit-node", "field-node"}},
			success: true,
			count:   2,
			errors:  []string{},
			details: map[string]bool{"field-node": true, "unit-node": true},
		},
		{
			name:    "duplicate pass counts once",
			results: []NodeResult{pass("field-node"), pass("field-node")},
			policy:  QuorumPolicy{Required: []string{"field-node"}},
			success: true,
			count:   1,
			errors:  []string{},
			details: map[string]bool{"field-node": true},
		},
		{
			name:    "duplicate keeps the failure",
			results: []NodeResult{pass("field-node"), pass("hl-node"), fail("field-node")},
			policy:  DefaultQuorumPolicy(),
			success: false,
			count:   1,
			errors:  []string{"field-node: signature does not verify"},
			details: map[string]bool{"field-node": false, "hl-node": true},
		},
		{
			name:    "duplicate additional does not reach quorum",
			results: []NodeResult{pass("field-node"), pass("hl-node"), pass("hl-node")},
			policy:  QuorumPolicy{Required: []string{"field-node"}, MinAdditional: 2},
			success: false,
			count:   2,
			errors:  []string{"quorum not reached: 1 of 2 additional guardian signatures verified"},
			details: map[string]bool{"field-node": true, "hl-node": true},
		},
		{
			name:    "no policy and no input",
			results: nil,
			policy:  QuorumPolicy{},
			success: true,
			count:   0,
			errors:  []string{},
			details: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Aggregate(tt.results, tt.policy)
			if v.Success != tt.success {
				t.Errorf("Success = %v, want %v", v.Success, tt.success)
			}
			if v.VerifiedCount != tt.count {
				t.Errorf("VerifiedCount = %d, want %d", v.VerifiedCount, tt.count)
			}
			if !reflect.DeepEqual(v.Errors, tt.errors) {
				t.Errorf("Errors = %q, want %q", v.Errors, tt.errors)
			}
			if !reflect.DeepEqual(v.VerificationDetails, tt.details) {
				t.Errorf("VerificationDetails = %v, want %v", v.VerificationDetails, tt.details)
			}
		})
	}
}

func TestAggregateDuplicateOrderIndependent(t *testing.T) {
	mismatch := fail("hl-node")
	malformed := NodeResult{NodeID: "hl-node", Failure: FailureMalformedSignature, Reason: "malformed signature: bad base64"}

	a := Aggregate([]NodeResult{pass("field-node"), mismatch, malformed, pass("hl-node")}, DefaultQuorumPolicy())
	b := Aggregate([]NodeResult{pass("hl-node"), malformed, pass("field-node"), mismatch}, DefaultQuorumPolicy())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("verdicts differ:\n%+v\n%+v", a, b)
	}
	if a.Errors[0] != "hl-node: malformed signature: bad base64" {
		t.Errorf("kept failure = %q", a.Errors[0])
	}
}

// A failed verdict always explains itself, whatever the mix of outcomes.
func TestAggregateFailureHasErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"field-node", "hl-node", "unit-node", "node-1", "node-2"}

	for i := 0; i < 500; i++ {
		var results []NodeResult
		for _, id := range ids {
			switch rng.Intn(3) {
			case 0:
				results = append(results, pass(id))
			case 1:
				results = append(results, fail(id))
			}
		}
		policy := QuorumPolicy{Required: []string{"field-node"}, MinAdditional: rng.Intn(4)}

		v := Aggregate(results, policy)
		if !v.Success && len(v.Errors) == 0 {
			t.Fatalf("case %d: failed verdict without errors for %+v", i, results)
		}
		passed := 0
		for _, r := range results {
			if v.VerificationDetails[r.NodeID] != r.Passed {
				t.Fatalf("case %d: details[%s] = %v", i, r.NodeID, v.VerificationDetails[r.NodeID])
			}
			if r.Passed {
				passed++
			}
		}
		if v.VerifiedCount != passed {
			t.Fatalf("case %d: VerifiedCount = %d, want %d", i, v.VerifiedCount, passed)
		}
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	results := []NodeResult{pass("unit-node"), pass("field-node"), fail("hl-node")}
	Aggregate(results, DefaultQuorumPolicy())
	if results[0].NodeID != "unit-node" || results[2].NodeID != "hl-node" {
		t.Fatalf("input reordered: %+v", results)
	}
}
