package launch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jguan/modelrun/pkg/unit"
)

// Parameters are the tunable launch values.
type Parameters struct {
	BatchSize            int     `json:"batch_size" yaml:"batch_size"`
	MaxSeqLen            int     `json:"max_seq_len" yaml:"max_seq_len"`
	UseFP16              bool    `json:"use_fp16" yaml:"use_fp16"`
	GPUMemoryUtilization float64 `json:"gpu_memory_utilization" yaml:"gpu_memory_utilization"`
	TensorParallelSize   int     `json:"tensor_parallel_size" yaml:"tensor_parallel_size"`
	Port                 int     `json:"port" yaml:"port"`
	ModelPath            string  `json:"model_path" yaml:"model_path"`
}

// Accepted values for the enumerated parameters.
var (
	SeqLenOptions         = []int{1024, 2048, 4096, 8192, 16384}
	TensorParallelOptions = []int{1, 2, 4, 8}
)

var maxMemoryFraction = decimal.RequireFromString("0.95")

func DefaultParameters() Parameters {
	return Parameters{
		BatchSize:            1,
		MaxSeqLen:            2048,
		UseFP16:              true,
		GPUMemoryUtilization: 0.8,
		TensorParallelSize:   1,
		Port:                 8000,
		ModelPath:            "/models",
	}
}

// Apply merges a recommendation. Precision, port and model path are kept.
func (p Parameters) Apply(r Recommendation) Parameters {
	p.BatchSize = r.BatchSize
	p.MaxSeqLen = r.MaxSeqLen
	p.GPUMemoryUtilization = r.GPUMemoryUtilization
	p.TensorParallelSize = r.TensorParallelSize
	return p
}

// Validate checks every field against the accepted ranges. Generate does not
// call it; callers that accept user input do.
func (p Parameters) Validate() error {
	if p.BatchSize < 1 {
		return invalidParam("batch_size", p.BatchSize, "must be at least 1")
	}
	if !containsInt(SeqLenOptions, p.MaxSeqLen) {
		return invalidParam("max_seq_len", p.MaxSeqLen, fmt.Sprintf("must be one of %v", SeqLenOptions))
	}
	frac := decimal.NewFromFloat(p.GPUMemoryUtilization)
	if !frac.IsPositive() || frac.GreaterThan(maxMemoryFraction) {
		return invalidParam("gpu_memory_utilization", p.GPUMemoryUtilization, "must be in (0, 0.95]")
	}
	if !containsInt(TensorParallelOptions, p.TensorParallelSize) {
		return invalidParam("tensor_parallel_size", p.TensorParallelSize, fmt.Sprintf("must be one of %v", TensorParallelOptions))
	}
	if p.Port < 1 || p.Port > 65535 {
		return invalidParam("port", p.Port, "must be in [1, 65535]")
	}
	if strings.TrimSpace(p.ModelPath) == "" {
		return invalidParam("model_path", p.ModelPath, "must not be blank")
	}
	return nil
}

// MergeMap overlays the keys present in m onto p. Unknown keys are ignored;
// a value of the wrong type is an ErrInvalidParameters.
func (p Parameters) MergeMap(m map[string]any) (Parameters, error) {
	ints := []struct {
		key string
		dst *int
	}{
		{"batch_size", &p.BatchSize},
		{"max_seq_len", &p.MaxSeqLen},
		{"tensor_parallel_size", &p.TensorParallelSize},
		{"port", &p.Port},
	}
	for _, f := range ints {
		v, ok := m[f.key]
		if !ok || v == nil {
			continue
		}
		n, ok := unit.ToInt(v)
		if !ok {
			return p, invalidParam(f.key, v, "must be an integer")
		}
		*f.dst = n
	}

	if v, ok := m["gpu_memory_utilization"]; ok && v != nil {
		f, ok := unit.ToFloat(v)
		if !ok {
			return p, invalidParam("gpu_memory_utilization", v, "must be a number")
		}
		p.GPUMemoryUtilization = f
	}
	if v, ok := m["use_fp16"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return p, invalidParam("use_fp16", v, "must be a boolean")
		}
		p.UseFP16 = b
	}
	if v, ok := m["model_path"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return p, invalidParam("model_path", v, "must be a string")
		}
		p.ModelPath = s
	}
	return p, nil
}

// FormatFraction renders f in the shortest form that round-trips, without an
// exponent: 0.9 is "0.9", 1 is "1", 0.1+0.2 is "0.30000000000000004".
func FormatFraction(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func invalidParam(field string, value any, reason string) error {
	return ErrInvalidParameters.
		WithDetails("field", field).
		WithDetails("value", value).
		WithDetails("reason", reason)
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
