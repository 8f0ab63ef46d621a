package reporter

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobsearch-automation/internal/scraper"
)

// Bot pushes run notifications to a Telegram chat. Every method degrades to
// an error return; the pipeline logs and moves on when Telegram is down.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func (b *Bot) SendPosting(job *scraper.JobPosting) error {
	//build message chunks
	msgText := fmt.Sprintf("🏢 *%s*\n", b.escapeMarkdown(job.Company))
	msgText += fmt.Sprintf("💼 %s\n", b.escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🔗 [View Job](%s)\n", job.URL)

	if job.Location != scraper.Sentinel {
		msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(job.Location))
	}
	if job.DatePosted != scraper.Sentinel {
		msgText += fmt.Sprintf("📅 %s\n", b.escapeMarkdown(job.DatePosted))
	}
	if job.SeniorityLevel != scraper.Sentinel {
		msgText += fmt.Sprintf("🎯 %s\n", b.escapeMarkdown(job.SeniorityLevel))
	}
	if len(job.Skills) > 0 {
		msgText += fmt.Sprintf("📝 %s\n", b.escapeMarkdown(strings.Join(job.Skills, ", ")))
	}
	if job.EasyApply {
		msgText += "⚡ Easy Apply\n"
	} else if job.ApplyInfo != scraper.Sentinel {
		msgText += fmt.Sprintf("🌐 %s\n", b.escapeMarkdown(job.ApplyInfo))
	}

	//create inline keyboard
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.URL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

// SendChallengeAlert tells the operator a security wall is blocking the run.
func (b *Bot) SendChallengeAlert(pageURL string) error {
	msg := tgbotapi.NewMessage(b.chatID,
		fmt.Sprintf("🛑 Security challenge detected at %s — open the browser and clear it to resume.", pageURL))
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
