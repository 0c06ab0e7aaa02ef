package combats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) testCombat() *combat.Combat {
	cbt := combat.NewCombat("cbt-1", "game-1", "gm-1", 10, combat.DefaultRules())
	return cbt
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	cbt := s.testCombat()

	data, err := json.Marshal(cbt)
	s.Require().NoError(err)

	s.mock.ExpectExists("combat:cbt-1").SetVal(0)
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("combat:cbt-1", data, 0).SetVal("OK")
	s.mock.ExpectSet("game:game-1:active_combat", "cbt-1", 0).SetVal("OK")
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Create(ctx, cbt))
}

func (s *RedisRepoTestSuite) TestCreate_AlreadyExists() {
	ctx := context.Background()
	cbt := s.testCombat()

	s.mock.ExpectExists("combat:cbt-1").SetVal(1)

	err := s.repo.Create(ctx, cbt)
	s.Error(err)
	s.True(rberr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreate_Validation() {
	s.Error(s.repo.Create(context.Background(), nil))
	s.Error(s.repo.Create(context.Background(), &combat.Combat{}))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	cbt := s.testCombat()

	data, err := json.Marshal(cbt)
	s.Require().NoError(err)

	s.mock.ExpectGet("combat:cbt-1").SetVal(string(data))

	got, err := s.repo.Get(ctx, "cbt-1")
	s.Require().NoError(err)
	s.Equal("cbt-1", got.ID)
	s.Equal("game-1", got.GameID)
	s.Equal(combat.StatusActive, got.Status)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("combat:missing").RedisNil()

	_, err := s.repo.Get(context.Background(), "missing")
	s.Error(err)
	s.True(rberr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGet_DependencyError() {
	s.mock.ExpectGet("combat:cbt-1").SetErr(errors.New("redis down"))

	_, err := s.repo.Get(context.Background(), "cbt-1")
	s.Error(err)
	s.False(rberr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestUpdate_EndedClearsActivePointer() {
	ctx := context.Background()
	cbt := s.testCombat()
	cbt.End()

	data, err := json.Marshal(cbt)
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("combat:cbt-1", data, 0).SetVal("OK")
	s.mock.ExpectDel("game:game-1:active_combat").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Update(ctx, cbt))
}

func (s *RedisRepoTestSuite) TestGetActiveByGame() {
	ctx := context.Background()
	cbt := s.testCombat()

	data, err := json.Marshal(cbt)
	s.Require().NoError(err)

	s.mock.ExpectGet("game:game-1:active_combat").SetVal("cbt-1")
	s.mock.ExpectGet("combat:cbt-1").SetVal(string(data))

	got, err := s.repo.GetActiveByGame(ctx, "game-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("cbt-1", got.ID)
}

func (s *RedisRepoTestSuite) TestGetActiveByGame_NoneIsNotAnError() {
	s.mock.ExpectGet("game:game-1:active_combat").RedisNil()

	got, err := s.repo.GetActiveByGame(context.Background(), "game-1")
	s.NoError(err)
	s.Nil(got)
}

func (s *RedisRepoTestSuite) TestGetActiveByGame_StalePointer() {
	s.mock.ExpectGet("game:game-1:active_combat").SetVal("cbt-gone")
	s.mock.ExpectGet("combat:cbt-gone").RedisNil()

	got, err := s.repo.GetActiveByGame(context.Background(), "game-1")
	s.NoError(err)
	s.Nil(got)
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()
	cbt := s.testCombat()

	data, err := json.Marshal(cbt)
	s.Require().NoError(err)

	s.mock.ExpectGet("combat:cbt-1").SetVal(string(data))
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("combat:cbt-1").SetVal(1)
	s.mock.ExpectDel("game:game-1:active_combat").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Delete(ctx, cbt.ID))
}
