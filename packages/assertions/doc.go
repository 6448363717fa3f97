// Package assertions provides the checks steps use to decide pass or fail.
//
// Supported checks:
//   - Status code membership (status in 200, 204)
//   - Field presence (data.accessToken exists)
//   - Array presence (data.products is an array)
//   - Body substring (body contains "OK")
//
// Checks are deliberately shallow presence tests over the JSON body; they do
// not validate types or schemas.
package assertions
