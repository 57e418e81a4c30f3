package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
)

func TestRenderDelivery(t *testing.T) {
	body, err := RenderDelivery(DeliveryEmail{
		OrderNumber: "PD-ABC123",
		StoreName:   "تصاميم برستيج",
		Files: []FileLink{
			{FileName: "logo-final.ai", URL: "https://store.example.com/orders/1/files/2"},
			{FileName: "banner.psd", URL: "https://store.example.com/orders/1/files/3"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "PD-ABC123")
	assert.Contains(t, body, "تصاميم برستيج")
	assert.Contains(t, body, `href="https://store.example.com/orders/1/files/2"`)
	assert.Contains(t, body, "logo-final.ai")
	assert.Contains(t, body, "banner.psd")
	assert.Contains(t, body, `dir="rtl"`, "email is Arabic-first")
	assert.Contains(t, body, "Download your design files", "english fallback present")
}

func TestRenderDeliveryEscapesFileNames(t *testing.T) {
	body, err := RenderDelivery(DeliveryEmail{
		OrderNumber: "PD-1",
		StoreName:   "Store",
		Files:       []FileLink{{FileName: "<script>bad</script>", URL: "https://x"}},
	})
	require.NoError(t, err)
	assert.False(t, strings.Contains(body, "<script>bad</script>"))
}

func TestSendDeliverySkipsWhenUnconfigured(t *testing.T) {
	m := New("", "", "", "", "", logger.Nop())
	assert.False(t, m.Configured())

	err := m.SendDelivery(context.Background(), "buyer@example.com", DeliveryEmail{OrderNumber: "PD-1"})
	assert.NoError(t, err, "unconfigured mailer skips instead of failing")
}
