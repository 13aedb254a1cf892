package service

import (
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 加权总分 = 完成模块数×40 + 时间效率×30 + 正确率×30。
// 时间效率取 1/耗时分钟（至少 1 分钟）再乘 1000 拉回可比较的量级
const (
	moduleWeight    = 40.0
	timeWeight      = 30.0
	accuracyWeight  = 30.0
	timeRescale     = 1000.0
	teamCompletionW = 0.7
	teamAvgPointsW  = 0.3
)

// LeaderboardService 排行榜计算器：从 UserProgress 汇总行读取输入，
// 快照整体重建后写入，读路径带 Redis 缓存
type LeaderboardService struct {
	LeaderboardRepo  repository.LeaderboardRepository
	UserProgressRepo repository.UserProgressRepository
	UserRepo         repository.UserRepository
	TeamRepo         repository.TeamRepository
	Redis            *redis.Client
	CacheTTL         time.Duration
}

func NewLeaderboardService(
	leaderboardRepo repository.LeaderboardRepository,
	userProgressRepo repository.UserProgressRepository,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		LeaderboardRepo:  leaderboardRepo,
		UserProgressRepo: userProgressRepo,
		UserRepo:         userRepo,
		TeamRepo:         teamRepo,
		Redis:            rdb,
		CacheTTL:         cacheTTL,
	}
}

// WeightedScore 个人加权分，纯函数
func WeightedScore(modulesCompleted, timeSpentMinutes, correctAnswers, totalAnswers int) float64 {
	minutes := timeSpentMinutes
	if minutes < 1 {
		minutes = 1
	}
	accuracy := 0.0
	if totalAnswers > 0 {
		accuracy = float64(correctAnswers) / float64(totalAnswers)
	}
	return float64(modulesCompleted)*moduleWeight +
		(1.0/float64(minutes))*timeWeight*timeRescale +
		accuracy*accuracyWeight
}

// TeamScore 团队加权分：平均完成率占 70%，人均积分占 30%
func TeamScore(avgCompletionRate float64, totalPoints, members int) float64 {
	if members < 1 {
		return 0
	}
	return avgCompletionRate*teamCompletionW +
		float64(totalPoints)/float64(members)*teamAvgPointsW
}

// RecalculateIndividual 重算个人榜。courseID 为 0 时对所有有进度的课程逐一重算
func (s *LeaderboardService) RecalculateIndividual(courseID uint) error {
	if courseID == 0 {
		courseIDs, err := s.UserProgressRepo.DistinctCourseIDs()
		if err != nil {
			return err
		}
		for _, id := range courseIDs {
			if err := s.RecalculateIndividual(id); err != nil {
				return err
			}
		}
		return nil
	}

	rows, err := s.UserProgressRepo.ListByCourse(courseID)
	if err != nil {
		return err
	}

	userIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}
	users, err := s.UserRepo.ListByIDs(userIDs)
	if err != nil {
		return err
	}
	namesByID := make(map[uint]string, len(users))
	for _, u := range users {
		namesByID[u.ID] = u.Name
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.LeaderboardEntry{
			CourseID:         courseID,
			UserID:           row.UserID,
			UserName:         namesByID[row.UserID],
			TotalPoints:      row.TotalPointsEarned,
			ModulesCompleted: row.ModulesCompleted,
			TimeSpentMinutes: row.TimeSpentMinutes,
			CorrectAnswers:   row.CorrectAnswers,
			TotalAnswers:     row.TotalAnswers,
			WeightedScore:    WeightedScore(row.ModulesCompleted, row.TimeSpentMinutes, row.CorrectAnswers, row.TotalAnswers),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WeightedScore != entries[j].WeightedScore {
			return entries[i].WeightedScore > entries[j].WeightedScore
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := s.LeaderboardRepo.ReplaceIndividual(courseID, entries); err != nil {
		return err
	}
	monitoring.LeaderboardRecalcs.WithLabelValues("individual").Inc()
	s.invalidateCache(fmt.Sprintf("leaderboard:individual:%d:*", courseID))

	logger.Log.Info("individual leaderboard recalculated",
		zap.Uint("courseId", courseID), zap.Int("entries", len(entries)))
	return nil
}

// RecalculateTeam 重算团队榜。成员资格以该课程存在 UserProgress 行为准
func (s *LeaderboardService) RecalculateTeam(courseID uint) error {
	if courseID == 0 {
		courseIDs, err := s.UserProgressRepo.DistinctCourseIDs()
		if err != nil {
			return err
		}
		for _, id := range courseIDs {
			if err := s.RecalculateTeam(id); err != nil {
				return err
			}
		}
		return nil
	}

	rows, err := s.UserProgressRepo.ListByCourse(courseID)
	if err != nil {
		return err
	}
	progressByUser := make(map[uint]model.UserProgress, len(rows))
	for _, row := range rows {
		progressByUser[row.UserID] = row
	}

	teams, err := s.TeamRepo.ListAll()
	if err != nil {
		return err
	}

	entries := make([]model.TeamLeaderboardEntry, 0, len(teams))
	for _, team := range teams {
		var (
			members         int
			totalPoints     int
			completionTotal float64
		)
		for _, member := range team.Members {
			row, ok := progressByUser[member.ID]
			if !ok {
				continue
			}
			members++
			totalPoints += row.TotalPointsEarned
			completionTotal += float64(row.CompletionPercentage)
		}
		if members == 0 {
			continue
		}

		avgCompletion := completionTotal / float64(members)
		entries = append(entries, model.TeamLeaderboardEntry{
			CourseID:              courseID,
			TeamID:                team.ID,
			TeamName:              team.Name,
			TotalMembers:          members,
			TotalPoints:           totalPoints,
			AverageCompletionRate: avgCompletion,
			WeightedScore:         TeamScore(avgCompletion, totalPoints, members),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WeightedScore != entries[j].WeightedScore {
			return entries[i].WeightedScore > entries[j].WeightedScore
		}
		return entries[i].TeamID < entries[j].TeamID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := s.LeaderboardRepo.ReplaceTeam(courseID, entries); err != nil {
		return err
	}
	monitoring.LeaderboardRecalcs.WithLabelValues("team").Inc()
	s.invalidateCache(fmt.Sprintf("leaderboard:team:%d:*", courseID))

	logger.Log.Info("team leaderboard recalculated",
		zap.Uint("courseId", courseID), zap.Int("entries", len(entries)))
	return nil
}

func (s *LeaderboardService) GetIndividual(courseID uint, limit int) ([]model.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:individual:%d:%d", courseID, limit)
	var cached []model.LeaderboardEntry
	if s.readCache(cacheKey, &cached) {
		return cached, nil
	}

	entries, err := s.LeaderboardRepo.ListIndividual(courseID, limit)
	if err != nil {
		return nil, err
	}
	s.writeCache(cacheKey, entries)
	return entries, nil
}

func (s *LeaderboardService) GetTeam(courseID uint, limit int) ([]model.TeamLeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:team:%d:%d", courseID, limit)
	var cached []model.TeamLeaderboardEntry
	if s.readCache(cacheKey, &cached) {
		return cached, nil
	}

	entries, err := s.LeaderboardRepo.ListTeam(courseID, limit)
	if err != nil {
		return nil, err
	}
	s.writeCache(cacheKey, entries)
	return entries, nil
}

// 缓存只是加速，Redis 不可用时直接回源
func (s *LeaderboardService) readCache(key string, dest interface{}) bool {
	if s.Redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Log.Warn("corrupt leaderboard cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *LeaderboardService) writeCache(key string, value interface{}) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Redis.Set(ctx, key, raw, s.CacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to write leaderboard cache", zap.String("key", key), zap.Error(err))
	}
}

func (s *LeaderboardService) invalidateCache(pattern string) {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	keys, err := s.Redis.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("failed to invalidate leaderboard cache", zap.String("pattern", pattern), zap.Error(err))
	}
}
