package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// CreateInvite implements core.InviteIssuer. Each link admits a single member
// and expires after the configured TTL, so a leaked link is worthless almost
// immediately.
func (t *TgBot) CreateInvite(ctx context.Context) (string, error) {
	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	link, err := t.api.CreateChatInviteLink(t.config.GroupId, &tgbotapi.CreateChatInviteLinkOpts{
		MemberLimit: 1,
		ExpireDate:  time.Now().Add(t.config.InviteTTL).Unix(),
		RequestOpts: &tgbotapi.RequestOpts{
			Timeout: timeout,
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating invite link: %w", err)
	}
	return link.InviteLink, nil
}
