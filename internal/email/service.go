package email

import (
	"context"
)

type Service interface {
	SendVerification(ctx context.Context, email, name, verifyLink string) error
	SendWelcome(ctx context.Context, email, name string) error
}
