package services

import (
	"testing"

	"reward-claim-system/models"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrderAndIDs(t *testing.T) {
	registry := NewTaskRegistry(DefaultTasks())

	tasks := registry.List()
	require.Len(t, tasks, 3)

	require.Equal(t, "join-telegram-channel", tasks[0].ID)
	require.Equal(t, models.TaskKindOneTime, tasks[0].Kind)
	require.Equal(t, int64(5000), tasks[0].RewardAmount)
	require.NotEmpty(t, tasks[0].ExternalAction)

	require.Equal(t, "join-whatsapp-group", tasks[1].ID)
	require.Equal(t, int64(5000), tasks[1].RewardAmount)

	require.Equal(t, "daily-check-in", tasks[2].ID)
	require.Equal(t, models.TaskKindDaily, tasks[2].Kind)
	require.Equal(t, int64(15000), tasks[2].RewardAmount)
	require.Empty(t, tasks[2].ExternalAction)
}

func TestRegistryGet(t *testing.T) {
	registry := NewTaskRegistry(DefaultTasks())

	task, ok := registry.Get("daily-check-in")
	require.True(t, ok)
	require.Equal(t, "Daily Check-in", task.Title)

	_, ok = registry.Get("no-such-task")
	require.False(t, ok)
}

func TestRegistryListReturnsCopy(t *testing.T) {
	registry := NewTaskRegistry(DefaultTasks())

	tasks := registry.List()
	tasks[0].RewardAmount = 999999

	again := registry.List()
	require.Equal(t, int64(5000), again[0].RewardAmount)
}

func TestRegistryKeepsExplicitIDs(t *testing.T) {
	registry := NewTaskRegistry([]models.Task{
		{ID: "custom-id", Title: "Some Task", Kind: models.TaskKindOneTime, RewardAmount: 100},
	})

	task, ok := registry.Get("custom-id")
	require.True(t, ok)
	require.Equal(t, "Some Task", task.Title)
}
