package service

import (
	"testing"

	"github.com/orexam/orexam-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplateCoversEveryTopic(t *testing.T) {
	for _, topic := range model.Topics {
		t.Run(string(topic), func(t *testing.T) {
			for i := 0; i < 20; i++ {
				text := renderTemplate(topic)
				require.NotEmpty(t, text)
				// No unresolved placeholders may survive rendering.
				assert.NotContains(t, text, "{")
				assert.NotContains(t, text, "}")
			}
		})
	}
}
