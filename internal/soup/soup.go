// Package soup builds an equal-weight linear merge recipe from a set of model
// revisions ("model soup").
package soup

import (
	"fmt"

	"mergescan/internal/recipe"
)

// BuildRecipe returns a linear recipe that merges every revision of modelID
// with equal weight. Key order matches the written form: models first, then
// merge_method, dtype, chat_template.
func BuildRecipe(modelID string, revisions []string, dtype, chatTemplate string) (*recipe.Recipe, error) {
	if len(revisions) == 0 {
		return nil, fmt.Errorf("no revisions to merge for %s", modelID)
	}
	r := recipe.New()
	weight := 1.0 / float64(len(revisions))
	for _, rev := range revisions {
		r.AppendModel(modelID+"@"+rev, weight)
	}
	r.SetString("merge_method", "linear")
	r.SetString("dtype", dtype)
	r.SetString("chat_template", chatTemplate)
	return r, nil
}
