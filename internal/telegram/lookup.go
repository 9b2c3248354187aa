// File path: internal/telegram/lookup.go
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"

	"github.com/famnet/famapi/internal/common"
)

// Attachments beyond this size are ignored rather than buffered in memory.
const maxAttachmentSize = 4 << 20

// Lookup sends "/fam <query>" to the group and waits for a bot reply that
// carries FAM markers. The raw reply text is returned; parsing is the
// caller's concern. Returns ErrLookupTimeout when the bot stays silent past
// the configured deadline.
func (c *Client) Lookup(ctx context.Context, query string) (string, error) {
	logger := common.Logger()
	if err := c.WaitReady(ctx); err != nil {
		return "", err
	}

	wait := make(chan string, 1)
	c.mu.Lock()
	c.waiter = wait
	peer := c.peer
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.waiter == wait {
			c.waiter = nil
		}
		c.mu.Unlock()
	}()

	command := "/fam " + strings.TrimSpace(query)
	if _, err := c.sender.To(peer).Text(ctx, command); err != nil {
		return "", fmt.Errorf("send command: %w", err)
	}
	logger.Debug("telegram: command sent", "command", command, "channel", peer.ChannelID)

	timer := time.NewTimer(c.cfg.LookupTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", ErrLookupTimeout
	case text := <-wait:
		return text, nil
	}
}

func attachedDocument(msg *tg.Message) *tg.Document {
	media, ok := msg.Media.(*tg.MessageMediaDocument)
	if !ok {
		return nil
	}
	doc, ok := media.Document.AsNotEmpty()
	if !ok {
		return nil
	}
	return doc
}

// downloadDocument buffers a text attachment; some bots answer with the
// record as a file instead of a message body.
func (c *Client) downloadDocument(ctx context.Context, doc *tg.Document) (string, error) {
	if doc.Size > maxAttachmentSize {
		return "", fmt.Errorf("attachment too large: %d bytes", doc.Size)
	}
	var buf bytes.Buffer
	_, err := downloader.NewDownloader().
		Download(c.client.API(), doc.AsInputDocumentFileLocation()).
		Stream(ctx, &buf)
	if err != nil {
		return "", fmt.Errorf("download attachment: %w", err)
	}
	return buf.String(), nil
}
