// Package orchestrator drives autonomous company research as a bounded
// decide/act/observe loop over registered capabilities.
//
// # Overview
//
// A research run moves through a fixed set of phases:
//
//	Extracting → Deciding ⇄ Acting/Observing → Finalizing → Redacting → Done
//
// The subject company is first extracted from the free-text query. The
// loop then asks the model collaborator for one decision per iteration:
// which capability to invoke, with which arguments, or that research is
// complete. Every invocation result becomes an observation fed back into
// the next decision. The iteration count is hard-capped, so a run always
// terminates.
//
// # Capability dispatch
//
// Decisions name capabilities by string. The agent registry is consulted
// before the tool registry, and an unknown or failing action is turned
// into an error observation rather than aborting the run. The loop keeps
// going and lets the collaborator route around the failure.
//
// # The redaction gate
//
// No briefing leaves the orchestrator unredacted. After finalizing, the
// rendered document always passes through the redaction pipeline, and
// the output carries the redaction summary alongside the text.
package orchestrator
