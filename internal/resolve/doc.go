// Package resolve materializes and maintains bench.json.
//
// [Resolver.NewConfig] builds a document from, in increasing precedence:
//  1. the standard profiles under <tuskdir>/configs: default.json,
//     <deploymode>-default.json, <consensus>-default.json and
//     <consensus>-<deploymode>-default.json
//  2. with a profile name: the numbered profile
//     <consensus>-<deploymode>-<profile>, the named profile <profile> and
//     finally <launchdir>/<profile>
//  3. BBAKE_<NAME> environment variables for each requested config var
//  4. the consensus and nodesdir options, which always win
//
// Profiles are merged shallowly: a later profile replaces a key outright.
// Missing profile files are skipped.
//
// [Resolver.Update], [Resolver.Require] and [Resolver.ShellExport] operate on
// an existing document. Get, Set and Show are small conveniences for
// inspecting and editing one.
package resolve
