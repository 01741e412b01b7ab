package historyremove_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blendrun/blendrun/internal/app/historyremove"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config historyremove.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: historyremove.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Logger:     log.Noop,
			},
			expErr: false,
		},
		"missing repository should fail": {
			config: historyremove.ServiceConfig{
				Logger: log.Noop,
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := historyremove.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	createdAt := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

	stored := model.Run{
		ID:        "01JC8R4V9NXX2FEGTPM3QWE5RT",
		Name:      "create_cube",
		Status:    model.OutcomeSuccess,
		CreatedAt: createdAt,
	}

	tests := map[string]struct {
		mock      func(m *storagemock.MockRepository)
		req       historyremove.Request
		expResult *model.Run
		expErr    error
	}{
		"remove existing run returns the deleted record": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetRun", mock.Anything, stored.ID).Once().Return(&stored, nil)
				m.On("DeleteRun", mock.Anything, stored.ID).Once().Return(nil)
			},
			req:       historyremove.Request{ID: stored.ID},
			expResult: &stored,
		},
		"missing run should return not found": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetRun", mock.Anything, "nope").Once().Return(nil, model.ErrNotFound)
			},
			req:    historyremove.Request{ID: "nope"},
			expErr: model.ErrNotFound,
		},
		"empty ID should not hit the repository": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    historyremove.Request{ID: ""},
			expErr: model.ErrNotValid,
		},
		"delete error should propagate": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetRun", mock.Anything, stored.ID).Once().Return(&stored, nil)
				m.On("DeleteRun", mock.Anything, stored.ID).Once().Return(fmt.Errorf("database error"))
			},
			req:    historyremove.Request{ID: stored.ID},
			expErr: fmt.Errorf("any"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			test.mock(m)

			svc, err := historyremove.NewService(historyremove.ServiceConfig{
				Repository: m,
				Logger:     log.Noop,
			})
			require.NoError(err)

			result, err := svc.Run(context.Background(), test.req)

			if test.expErr != nil {
				assert.Error(err)
				if errors.Is(test.expErr, model.ErrNotFound) || errors.Is(test.expErr, model.ErrNotValid) {
					assert.ErrorIs(err, test.expErr)
				}
			} else {
				assert.NoError(err)
				assert.Equal(test.expResult, result)
			}

			m.AssertExpectations(t)
		})
	}
}
