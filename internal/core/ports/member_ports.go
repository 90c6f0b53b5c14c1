package ports

import (
	"context"
	"io"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
)

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	CreateMany(ctx context.Context, members []domain.Member) error
	List(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id string) error
}

type UpdateMemberInput struct {
	Name  string
	Photo *string
}

type MemberService interface {
	Add(ctx context.Context, member domain.Member) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, id string, input UpdateMemberInput) (*domain.Member, error)
	Remove(ctx context.Context, id string) error
	Import(ctx context.Context, csv io.Reader) ([]domain.Member, error)
}
