package discord

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/shared/logger"
)

// transcriptDepth bounds the export; tickets rarely come near it.
const transcriptDepth = 2000

var transcriptTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.ChannelName}}</title>
<style>
body { font-family: sans-serif; background: #36393f; color: #dcddde; margin: 2em; }
.message { margin-bottom: 1em; }
.author { font-weight: bold; color: #fff; }
.bot { color: #7289da; }
.timestamp { color: #72767d; font-size: 0.8em; margin-left: 0.5em; }
.content { margin-top: 0.2em; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>#{{.ChannelName}}</h1>
{{range .Messages}}<div class="message">
<span class="author{{if .AuthorIsBot}} bot{{end}}">{{.AuthorName}}</span><span class="timestamp">{{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}</span>
<div class="content">{{.Content}}</div>
</div>
{{end}}</body>
</html>
`))

// TranscriptService implements platform.TranscriptGateway by rendering the
// channel history into a standalone HTML document.
type TranscriptService struct {
	channels platform.ChannelGateway
	logger   logger.Interface
}

func NewTranscriptService(channels platform.ChannelGateway, logger logger.Interface) *TranscriptService {
	return &TranscriptService{channels: channels, logger: logger}
}

var _ platform.TranscriptGateway = (*TranscriptService)(nil)

func (s *TranscriptService) Export(ctx context.Context, channelID string) ([]byte, error) {
	history, err := s.channels.History(ctx, channelID, transcriptDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for transcript: %w", err)
	}
	name, err := s.channels.Topic(ctx, channelID)
	if err != nil || name == "" {
		name = channelID
	}

	var buf bytes.Buffer
	data := struct {
		ChannelName string
		Messages    []platform.Message
	}{
		ChannelName: name,
		Messages:    history,
	}
	if err := transcriptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render transcript: %w", err)
	}
	return buf.Bytes(), nil
}
