package ai

import "strings"

// ModelFamily classifies embedding models by their text formulation
// requirements. The classification is a pure mapping on the model name.
type ModelFamily int

const (
	// FamilySentence covers sentence-transformer style models that embed
	// raw text identically for documents and queries.
	FamilySentence ModelFamily = iota + 1
	// FamilyPrefixed covers models trained with task prefixes, which expect
	// "search_document: " / "search_query: " markers before the text.
	FamilyPrefixed
)

const (
	documentPrefix = "search_document: "
	queryPrefix    = "search_query: "
)

// KnownModels lists embedding models this engine has been used with,
// keyed by model name.
var KnownModels = map[string]string{
	"ai-forever/ru-en-RoSBERTa":             "Russian-English model with task prefixes",
	"sberbank-ai/sbert_large_nlu_ru":        "Russian language model (large)",
	"paraphrase-multilingual-MiniLM-L12-v2": "Multilingual model (smaller, supports 50+ languages)",
	"embeddinggemma":                        "Local general-purpose embedding model",
}

// FamilyForModel determines the family of a model from its name.
// Names carrying a prefixed-training marker map to FamilyPrefixed;
// everything else is treated as a plain sentence embedder.
func FamilyForModel(modelName string) ModelFamily {
	lower := strings.ToLower(modelName)
	if strings.Contains(lower, "rosberta") {
		return FamilyPrefixed
	}
	return FamilySentence
}

// FormatForMode returns the texts as they should be sent to the model for
// the given mode. For FamilyPrefixed models each text is prefixed with the
// task marker; other families receive the texts unchanged. The input slice
// is never modified.
func FormatForMode(modelName string, mode EmbeddingMode, texts []string) []string {
	if FamilyForModel(modelName) != FamilyPrefixed {
		return texts
	}

	prefix := documentPrefix
	if mode == ModeQuery {
		prefix = queryPrefix
	}

	formatted := make([]string, len(texts))
	for i, text := range texts {
		formatted[i] = prefix + text
	}
	return formatted
}
