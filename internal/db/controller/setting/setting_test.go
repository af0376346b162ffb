package setting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/dbtest"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()

	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t, &models.Setting{})

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			settingName: "calendar.google.1",
			seedData: []models.Setting{
				{Name: "calendar.google.1", Value: []byte(`{"connected":true}`)},
			},
			expectedValue: []byte(`{"connected":true}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(ctx, tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.settingName, setting.Name)
			assert.Equal(t, tc.expectedValue, setting.Value)
		})
	}
}

func TestSetUpserts(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t, &models.Setting{})

	require.NoError(t, Set(ctx, db, "k", []byte("one")))
	require.NoError(t, Set(ctx, db, "k", []byte("two")))

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	s, err := Get(ctx, db, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), s.Value)

	require.ErrorIs(t, Set(ctx, db, "", nil), ErrSettingNameEmpty)
	require.ErrorIs(t, Set(ctx, nil, "k", nil), ErrDBNil)
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t, &models.Setting{})

	type connection struct {
		Provider string `json:"provider"`
		Email    string `json:"email"`
	}

	require.NoError(t, SetJSON(ctx, db, "calendar.square.7", connection{Provider: "square", Email: "ink@example.com"}))

	var got connection
	require.NoError(t, GetJSON(ctx, db, "calendar.square.7", &got))
	assert.Equal(t, connection{Provider: "square", Email: "ink@example.com"}, got)

	require.ErrorIs(t, GetJSON(ctx, db, "calendar.square.8", &got), ErrSettingNotFound)
}

func TestDeleteByName(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t, &models.Setting{})

	seedSettings(t, db, []models.Setting{{Name: "gone", Value: []byte("x")}})

	require.NoError(t, DeleteByName(ctx, db, "gone"))
	require.ErrorIs(t, DeleteByName(ctx, db, "gone"), ErrSettingNotFound)
	require.ErrorIs(t, DeleteByName(ctx, db, ""), ErrSettingNameEmpty)
}
