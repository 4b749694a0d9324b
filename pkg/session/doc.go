// Package session holds the client-side login state and drives the
// authentication protocols against a remote backend.
//
// The Manager mirrors its state to a credstore.Store: with the
// remember-login preference on, every setter writes through; with it off,
// setters actively evict the persisted value so a previous session's
// credentials cannot leak into the next one. The avatar is the one
// exception and is always persisted. Token removal is always durable,
// token storage respects the preference.
//
// A previous session is restored with LoadToken, which consults an optional
// device-native source first and persisted storage second, revalidates the
// credential against the backend, and pulls the authoritative profile
// before reporting success.
//
// Usage:
//
//	store, _ := credstore.New("myapp", backend, nil)
//	mgr, err := session.NewManager(ctx, api, codes, store, session.Config{},
//		session.WithConfirm(confirm),
//		session.WithNavigator(nav),
//	)
//	if err != nil {
//		// misconfiguration
//	}
//
//	if _, err := mgr.LoadToken(ctx); err != nil { ... }
//	if !mgr.LoggedIn() {
//		err = mgr.LoginByUsername(ctx, "alice", "secret", true)
//	}
package session
