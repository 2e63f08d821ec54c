package guardian

import (
	"fmt"
	"sort"
)

// QuorumPolicy decides when a set of per-node results is trustworthy.
type QuorumPolicy struct {
	// Required nodes must be present and pass.
	Required []string
	// MinAdditional is how many non-required nodes must also pass.
	MinAdditional int
}

// DefaultQuorumPolicy requires field-node plus one more guardian.
func DefaultQuorumPolicy() QuorumPolicy {
	return QuorumPolicy{Required: []string{FieldNode}, MinAdditional: 1}
}

// Verdict is the result of verifying a signature set.
type Verdict struct {
	Success             bool            `json:"success"`
	VerifiedCount       int             `json:"verifiedCount"`
	Errors              []string        `json:"errors"`
	VerificationDetails map[string]bool `json:"verificationDetails"`
}

// Aggregate folds per-node results into a Verdict. The input order does not
// affect the output. A node id listed more than once counts once, and a
// failure for it wins over a pass.
func Aggregate(results []NodeResult, policy QuorumPolicy) Verdict {
	byID := make(map[string]NodeResult, len(results))
	for _, r := range results {
		if prev, seen := byID[r.NodeID]; seen {
			r = worse(prev, r)
		}
		byID[r.NodeID] = r
	}
	sorted := make([]NodeResult, 0, len(byID))
	for _, r := range byID {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].NodeID < sorted[j].NodeID })

	v := Verdict{
		Errors:              make([]string, 0),
		VerificationDetails: make(map[string]bool, len(sorted)),
	}

	required := make(map[string]bool, len(policy.Required))
	for _, id := range policy.Required {
		required[id] = true
	}

	additional := 0
	for _, r := range sorted {
		v.VerificationDetails[r.NodeID] = r.Passed
		if !r.Passed {
			v.Errors = append(v.Errors, r.Error())
			continue
		}
		v.VerifiedCount++
		if !required[r.NodeID] {
			additional++
		}
	}

	ok := true
	reqIDs := append([]string(nil), policy.Required...)
	sort.Strings(reqIDs)
	for _, id := range reqIDs {
		passed, present := v.VerificationDetails[id]
		switch {
		case !present:
			v.Errors = append(v.Errors, id+": required guardian signature missing")
			ok = false
		case !passed:
			ok = false
		}
	}

	if additional < policy.MinAdditional {
		v.Errors = append(v.Errors, fmt.Sprintf("quorum not reached: %d of %d additional guardian signatures verified", additional, policy.MinAdditional))
		ok = false
	}

	v.Success = ok
	return v
}

// worse picks the result to keep for a duplicated node id.
func worse(a, b NodeResult) NodeResult {
	switch {
	case a.Passed != b.Passed:
		if a.Passed {
			return b
		}
		return a
	case a.Failure != b.Failure:
		if a.Failure < b.Failure {
			return a
		}
		return b
	case b.Reason < a.Reason:
		return b
	}
	return a
}
