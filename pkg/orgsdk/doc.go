/*
Package orgsdk is a client for the orgflow HTTP API.

The package is organized around two types:

  - Client: public operations (health, signup, login, catalog listing) and
    session creation
  - Session: operations that need an access token (chart, catalog writes,
    projects)

Typical use:

	client := orgsdk.NewClient("http://localhost:10000")

	session, err := client.Login(ctx, "ada@example.com", "secret")
	if err != nil {
		return err
	}

	node, err := session.AddNode(ctx, orgsdk.CreateNodeRequest{
		ParentID: rootID,
		Name:     "Bea Lin",
	})

# Error Handling

Every non-2xx response is returned as *APIError carrying the HTTP status, a
machine readable code and a description:

	var apiErr *orgsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		// the caller's role may not change the chart
	}

The server uses the same APIError type to write its error responses, so
both sides agree on the format.

# Thread Safety

Clients and Sessions are safe for concurrent use.
*/
package orgsdk
