package follow_test

import (
	"fmt"
	"testing"

	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	alice := testutils.CreateTestUser(t, database.DB, "alice", "alice@example.com", "password123")
	bob := testutils.CreateTestUser(t, database.DB, "bob", "bob@example.com", "password123")

	token := testutils.GetAuthToken(t, alice.ID)

	t.Run("Success - Follow user", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", bob.ID), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)
	})

	t.Run("Error - Duplicate follow", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", bob.ID), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
		testutils.AssertError(t, resp, "CONFLICT")
	})

	t.Run("Error - Self follow", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", alice.ID), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		testutils.AssertError(t, resp, "BAD_REQUEST")
	})

	t.Run("Error - Unknown user", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/users/99999/follow", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Error - No token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", bob.ID), nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestUnfollowHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	alice := testutils.CreateTestUser(t, database.DB, "alice", "alice@example.com", "password123")
	bob := testutils.CreateTestUser(t, database.DB, "bob", "bob@example.com", "password123")

	token := testutils.GetAuthToken(t, alice.ID)

	resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", bob.ID), nil, token)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code)

	resp, err = testutils.MakeRequest(app, "DELETE", fmt.Sprintf("/users/%d/follow", bob.ID), nil, token)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Code)

	// Second unfollow finds nothing.
	resp, err = testutils.MakeRequest(app, "DELETE", fmt.Sprintf("/users/%d/follow", bob.ID), nil, token)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Code)
}

func TestFollowerAndFollowingLists(t *testing.T) {
	app := testutils.SetupTestApp(t)
	alice := testutils.CreateTestUser(t, database.DB, "alice", "alice@example.com", "password123")
	bob := testutils.CreateTestUser(t, database.DB, "bob", "bob@example.com", "password123")
	carol := testutils.CreateTestUser(t, database.DB, "carol", "carol@example.com", "password123")

	aliceToken := testutils.GetAuthToken(t, alice.ID)
	carolToken := testutils.GetAuthToken(t, carol.ID)

	resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", bob.ID), nil, aliceToken)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code)
	resp, err = testutils.MakeRequest(app, "POST", fmt.Sprintf("/users/%d/follow", bob.ID), nil, carolToken)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code)

	resp, err = testutils.MakeRequest(app, "GET", fmt.Sprintf("/users/%d/followers", bob.ID), nil, "")
	require.NoError(t, err)
	require.Equal(t, 200, resp.Code)

	var result testutils.StandardResponse
	testutils.ParseResponse(t, resp, &result)
	followers := result.Data.([]interface{})
	assert.Len(t, followers, 2)

	resp, err = testutils.MakeRequest(app, "GET", fmt.Sprintf("/users/%d/following", alice.ID), nil, "")
	require.NoError(t, err)
	require.Equal(t, 200, resp.Code)

	testutils.ParseResponse(t, resp, &result)
	following := result.Data.([]interface{})
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].(map[string]interface{})["username"])

	resp, err = testutils.MakeRequest(app, "GET", fmt.Sprintf("/users/%d/following", bob.ID), nil, "")
	require.NoError(t, err)
	require.Equal(t, 200, resp.Code)
	testutils.ParseResponse(t, resp, &result)
	assert.Empty(t, result.Data)
}
