package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type memberService struct {
	repo    ports.MemberRepository
	members ports.Cache[[]domain.Member]
	now     func() time.Time
}

func NewMemberService(repo ports.MemberRepository, members ports.Cache[[]domain.Member]) ports.MemberService {
	return &memberService{
		repo:    repo,
		members: members,
		now:     time.Now,
	}
}

func (s *memberService) Add(ctx context.Context, member domain.Member) (*domain.Member, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &member); err != nil {
		return nil, err
	}
	s.members.Invalidate()

	return &member, nil
}

func (s *memberService) List(ctx context.Context) ([]domain.Member, error) {
	return loadMembers(ctx, s.repo, s.members)
}

func (s *memberService) Update(ctx context.Context, id string, input ports.UpdateMemberInput) (*domain.Member, error) {
	member := &domain.Member{ID: id, Name: input.Name, Photo: input.Photo}
	if err := member.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	s.members.Invalidate()

	return member, nil
}

func (s *memberService) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidMember)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.members.Invalidate()

	return nil
}

// Import reads one member name per line. When the first line is a CSV header
// with a "name" column, names come from that column. Otherwise every line is
// a whole name, and a first line mentioning "name" is skipped as a header.
func (s *memberService) Import(ctx context.Context, r io.Reader) ([]domain.Member, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read import: %v", domain.ErrInvalidMember, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	column := -1
	if header, err := parseCSVLine(lines[0]); err == nil && len(header) > 1 {
		column = slices.IndexFunc(header, func(field string) bool {
			return strings.EqualFold(strings.TrimSpace(field), "name")
		})
	}

	prefix := fmt.Sprintf("imported-%d", s.now().UnixMilli())

	var imported []domain.Member
	for index, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if index == 0 && (column >= 0 || strings.Contains(strings.ToLower(line), "name")) {
			continue
		}

		name := line
		if column >= 0 {
			record, err := parseCSVLine(line)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed csv on line %d: %v", domain.ErrInvalidMember, index+1, err)
			}
			if column >= len(record) {
				continue
			}
			name = strings.TrimSpace(record[column])
		}
		if name == "" {
			continue
		}

		imported = append(imported, domain.Member{
			ID:   fmt.Sprintf("%s-%d", prefix, index),
			Name: name,
		})
	}

	if len(imported) == 0 {
		return nil, fmt.Errorf("%w: no member names found", domain.ErrInvalidMember)
	}

	if err := s.repo.CreateMany(ctx, imported); err != nil {
		return nil, err
	}
	s.members.Invalidate()

	slog.Info("members imported", "count", len(imported))

	return imported, nil
}

func parseCSVLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader.Read()
}

func loadMembers(ctx context.Context, repo ports.MemberRepository, cache ports.Cache[[]domain.Member]) ([]domain.Member, error) {
	members, gen, ok := cache.Get()
	if ok {
		return members, nil
	}

	members, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	cache.Set(members, gen)

	return members, nil
}
