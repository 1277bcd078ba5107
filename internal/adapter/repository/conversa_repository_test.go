package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/sumy-api/internal/domain/conversa"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestConversaRepository_CreateWithSeed(t *testing.T) {
	mock := newMock(t)
	repo := NewConversaRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO conversas").
		WithArgs(pgxmock.AnyArg(), "u1", "Projeto X", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO mensagens").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "user", "olá", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(1)))
	mock.ExpectCommit()

	c := &conversa.Conversa{UserID: "u1", Secao: "Projeto X"}
	seed := &conversa.Mensagem{Role: conversa.RoleUser, Content: "olá"}
	require.NoError(t, repo.Create(context.Background(), c, seed))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, c.ID, seed.ConversaID)
	assert.Equal(t, int64(1), seed.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversaRepository_CreateRollsBackOnMessageFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewConversaRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO conversas").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO mensagens").WillReturnError(errors.New("falha de disco"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(),
		&conversa.Conversa{UserID: "u1", Secao: "s"},
		&conversa.Mensagem{Role: conversa.RoleUser, Content: "x"},
	)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversaRepository_AppendMessageRejectsUnknownRole(t *testing.T) {
	mock := newMock(t)
	repo := NewConversaRepository(mock)

	err := repo.AppendMessage(context.Background(), &conversa.Mensagem{ConversaID: "c1", Role: "tool", Content: "x"})
	assert.ErrorIs(t, err, conversa.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversaRepository_ListMessagesOrdered(t *testing.T) {
	mock := newMock(t)
	repo := NewConversaRepository(mock)

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "conversa_id", "role", "content", "created_at", "seq"}).
		AddRow("m1", "c1", "user", "pergunta", ts, int64(1)).
		AddRow("m2", "c1", "assistant", "resposta", ts, int64(2))

	mock.ExpectQuery(`ORDER BY created_at ASC, seq ASC`).WithArgs("c1").WillReturnRows(rows)

	msgs, err := repo.ListMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversa.RoleUser, msgs[0].Role)
	assert.Equal(t, conversa.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "resposta", msgs[1].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversaRepository_SaveReply(t *testing.T) {
	mock := newMock(t)
	repo := NewConversaRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE conversas SET thread_id").
		WithArgs("thread_new", "c1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO mensagens").
		WithArgs(pgxmock.AnyArg(), "c1", "assistant", "resposta", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(7)))
	mock.ExpectCommit()

	reply := &conversa.Mensagem{Role: conversa.RoleAssistant, Content: "resposta"}
	require.NoError(t, repo.SaveReply(context.Background(), "c1", "thread_new", reply))
	assert.Equal(t, "c1", reply.ConversaID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversaRepository_Delete(t *testing.T) {
	t.Run("remove mensagens e conversa", func(t *testing.T) {
		mock := newMock(t)
		repo := NewConversaRepository(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM mensagens").WithArgs("c1").WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec("DELETE FROM conversas").WithArgs("c1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), "c1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback quando a conversa não existe", func(t *testing.T) {
		mock := newMock(t)
		repo := NewConversaRepository(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM mensagens").WithArgs("c1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("DELETE FROM conversas").WithArgs("c1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(context.Background(), "c1"), conversa.ErrConversaNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConversaRepository_FindByIDInvalidUUID(t *testing.T) {
	mock := newMock(t)
	repo := NewConversaRepository(mock)

	_, err := repo.FindByID(context.Background(), "nao-e-uuid")
	assert.ErrorIs(t, err, conversa.ErrConversaNotFound)
}
