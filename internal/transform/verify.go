package transform

import "context"

// Verify runs a ChangeSpec's invariants and mutation tests against an
// already-applied workdir. Overall success requires every invariant to
// pass and the mutation score to meet the declared threshold.
func (e *Engine) Verify(ctx context.Context, spec ChangeSpec, workdir, mutationRunnerCmd string) VerifyResult {
	results := e.RunInvariants(ctx, spec, workdir)

	var errs, warnings []string
	allPassed := true
	for _, r := range results {
		if !r.Passed {
			allPassed = false
			errs = append(errs, r.Name+": "+r.Message)
		} else if r.Message != "" {
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}

	report, err := e.RunMutationTests(ctx, spec.Tests.MutationThreshold, workdir, mutationRunnerCmd)
	if err != nil {
		errs = append(errs, "mutation test run: "+err.Error())
	}

	success := allPassed && report.Score >= spec.Tests.MutationThreshold

	return VerifyResult{
		Success:          success,
		Errors:           errs,
		Warnings:         warnings,
		InvariantResults: results,
		MutationReport:   report,
	}
}
