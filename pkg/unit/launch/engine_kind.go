package launch

// EngineKind selects the flag builder for an engine id.
type EngineKind int

const (
	KindUnknown EngineKind = iota
	KindVLLM
	KindTensorRTLLM
	KindTransformers
	KindOllama
)

var engineKindByID = map[string]EngineKind{
	"vllm":         KindVLLM,
	"tensorrt-llm": KindTensorRTLLM,
	"transformers": KindTransformers,
	"ollama":       KindOllama,
}

func ParseEngineKind(id string) EngineKind {
	return engineKindByID[id]
}

func (k EngineKind) String() string {
	switch k {
	case KindVLLM:
		return "vllm"
	case KindTensorRTLLM:
		return "tensorrt-llm"
	case KindTransformers:
		return "transformers"
	case KindOllama:
		return "ollama"
	default:
		return "unknown"
	}
}
