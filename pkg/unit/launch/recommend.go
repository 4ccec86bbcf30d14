package launch

// Recommendation is the subset of Parameters tuned per accelerator.
type Recommendation struct {
	BatchSize            int     `json:"batch_size" yaml:"batch_size"`
	MaxSeqLen            int     `json:"max_seq_len" yaml:"max_seq_len"`
	GPUMemoryUtilization float64 `json:"gpu_memory_utilization" yaml:"gpu_memory_utilization"`
	TensorParallelSize   int     `json:"tensor_parallel_size" yaml:"tensor_parallel_size"`
}

// Baseline applies to every accelerator without a dedicated entry.
var Baseline = Recommendation{BatchSize: 1, MaxSeqLen: 2048, GPUMemoryUtilization: 0.8, TensorParallelSize: 1}

var recommendations = map[string]Recommendation{
	"rtx-4090":  {BatchSize: 4, MaxSeqLen: 4096, GPUMemoryUtilization: 0.9, TensorParallelSize: 1},
	"rtx-4080":  {BatchSize: 2, MaxSeqLen: 4096, GPUMemoryUtilization: 0.8, TensorParallelSize: 1},
	"rtx-4070":  {BatchSize: 1, MaxSeqLen: 2048, GPUMemoryUtilization: 0.8, TensorParallelSize: 1},
	"a100-40gb": {BatchSize: 8, MaxSeqLen: 8192, GPUMemoryUtilization: 0.9, TensorParallelSize: 1},
	"a100-80gb": {BatchSize: 16, MaxSeqLen: 8192, GPUMemoryUtilization: 0.9, TensorParallelSize: 1},
}

// Recommend returns suggested values for the pair. Only the accelerator is
// consulted today; modelID is part of the signature so callers need not
// change when per-model tuning lands. Unknown ids get Baseline.
func Recommend(acceleratorID, modelID string) Recommendation {
	if r, ok := recommendations[acceleratorID]; ok {
		return r
	}
	return Baseline
}
