package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/HKK13/hello-bott/internal/service"
)

var mentionPattern = regexp.MustCompile(`<@([A-Za-z0-9]+)(?:\|[^>]*)?>`)

// Mentions extracts the user ids of every <@ID> token in text, in order.
func Mentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// UserModule serves "user <create|update|delete|list> ..." for team
// management.
type UserModule struct {
	users service.UserService
}

// NewUserModule creates the user management module.
func NewUserModule(users service.UserService) *UserModule {
	return &UserModule{users: users}
}

func (m *UserModule) Handle(ctx context.Context, req *Request) error {
	sub := Parse(req.Args())
	caller := chat.Mention(req.Caller.ID)

	switch sub.Name() {
	case "create":
		target, self, err := singleTarget(sub.Args, req.Caller, domain.ErrNeedSingleMention)
		if err != nil {
			return err
		}
		if _, err := m.users.Create(ctx, req.Caller, target); err != nil {
			return err
		}
		who := chat.Mention(target)
		if self {
			who = "self"
		}
		return req.Reply(ctx, fmt.Sprintf("%s created user %s", caller, who))

	case "update":
		target, _, err := singleTarget(sub.Args, req.Caller, domain.ErrNoMentionsProvided)
		if err != nil {
			return err
		}
		if _, err := m.users.Update(ctx, req.Caller, target); err != nil {
			return err
		}
		return req.Reply(ctx, fmt.Sprintf("%s updated user %s successfully.", caller, chat.Mention(target)))

	case "delete":
		ids := Mentions(sub.Args)
		if len(ids) != 1 {
			return domain.ErrNeedSingleMention
		}
		if err := m.users.Delete(ctx, req.Caller, ids[0]); err != nil {
			return err
		}
		return req.Reply(ctx, fmt.Sprintf("%s deleted %s from the database.", caller, chat.Mention(ids[0])))

	case "list":
		users, err := m.users.List(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return req.Reply(ctx, caller+", no users are registered yet.")
		}
		mentions := make([]string, len(users))
		for i, u := range users {
			mentions[i] = chat.Mention(u.ChatID)
		}
		return req.Reply(ctx, fmt.Sprintf("%s, registered users: %s", caller, strings.Join(mentions, ", ")))

	default:
		return &domain.CommandNotFoundError{Name: strings.TrimSpace("user " + sub.Name())}
	}
}

// singleTarget resolves "me" to the caller and otherwise requires exactly
// one mention. none is returned when the text has no mention at all.
func singleTarget(args string, caller domain.Identity, none error) (id string, self bool, err error) {
	if strings.EqualFold(strings.TrimSpace(args), "me") {
		return caller.ID, true, nil
	}
	ids := Mentions(args)
	switch len(ids) {
	case 0:
		return "", false, none
	case 1:
		return ids[0], false, nil
	default:
		return "", false, domain.ErrNeedSingleMention
	}
}
