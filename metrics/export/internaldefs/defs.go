package internaldefs

import (
	goSign "github.com/MrEthical07/goSign"
)

// CounterDef defines a public type used by goSign APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSign.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSign APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSign.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the signing adapter.
var CounterDefs = []CounterDef{
	{ID: goSign.MetricEncodeSuccess, Name: "gosign_encode_success_total", Help: "Successfully signed tokens."},
	{ID: goSign.MetricEncodeFailure, Name: "gosign_encode_failure_total", Help: "Failed encode operations."},
	{ID: goSign.MetricDecodeSuccess, Name: "gosign_decode_success_total", Help: "Successfully verified tokens."},
	{ID: goSign.MetricDecodeExpired, Name: "gosign_decode_expired_total", Help: "Tokens rejected as expired."},
	{ID: goSign.MetricDecodeNotYetValid, Name: "gosign_decode_not_yet_valid_total", Help: "Tokens rejected as not yet valid."},
	{ID: goSign.MetricDecodeSignatureInvalid, Name: "gosign_decode_signature_invalid_total", Help: "Tokens rejected for signature mismatch."},
	{ID: goSign.MetricDecodeRejected, Name: "gosign_decode_rejected_total", Help: "Tokens rejected as malformed or with bad key id or algorithm headers."},
	{ID: goSign.MetricDecodeConfigFailure, Name: "gosign_decode_config_failure_total", Help: "Decode operations failed by keyset or adapter configuration problems."},
}

// HistogramDefs is an exported constant or variable used by the signing adapter.
var HistogramDefs = []HistogramDef{
	{ID: goSign.MetricDecodeLatency, Name: "gosign_decode_latency_seconds", Help: "Decode latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the signing adapter.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the signing adapter.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
