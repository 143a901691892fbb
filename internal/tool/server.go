// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer returns an MCP server with every mdext tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "mdext", Version: version}, nil)

	mcp.AddTool(server, MetadataCombineDocuments, CombineDocuments)
	mcp.AddTool(server, MetadataValidateDocuments, ValidateDocuments)
	mcp.AddTool(server, MetadataValidateDirectory, ValidateDirectory)

	return server
}
