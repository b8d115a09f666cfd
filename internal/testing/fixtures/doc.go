// Package fixtures provides test data factories for Ringside.
//
// Create a factory with a database connection:
//
//	f := fixtures.New(tdb.DB)
//
// Factory methods persist entities with sensible defaults; option functions
// customize them:
//
//	title := f.CreateTitle(t, func(o *fixtures.TitleOpts) { o.Name = "Tag Team Championship" })
//	champ := f.CreateWrestler(t)
//	f.CreateChampionship(t, title, champ, title.IntroducedAt)
//
// Test data is removed with the namespace when the test database closes.
package fixtures
