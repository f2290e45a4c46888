// Package api contains the client-side transport for the cloudbox service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     authentication (Login/Register/Logout), account administration
//     (ListUsers, SetAdministrator, DeleteUser) and file storage
//     (ListFiles, Upload, Download, Rename, SetComment, DeleteFile).
//  2. A concrete HTTP implementation (see HTTPClient) that keeps the server
//     session cookie in a jar, injects the anti-forgery token into every
//     state-mutating request, tags requests with an id for log correlation,
//     and normalizes failures through Classify.
//  3. The pure anti-forgery token extractor (ExtractToken) and the response
//     classifier (Classify) that maps transport outcomes onto the error
//     taxonomy in package common.
//
// # Error Handling
//
// Every failed call returns a *common.Error; callers match kinds with
// common.IsKind / common.AsError. A request that produced no response at
// all is KindNetworkUnreachable.
//
// All operations accept a context.Context and honor cancellation.
package api
