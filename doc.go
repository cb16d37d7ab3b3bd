// Package agentbay is a client SDK for the AgentBay cloud-session control
// plane: create and drive remote desktop, browser, mobile, and code-sandbox
// sessions, attach persistent context volumes, transfer files through
// presigned URLs, invoke remote tools, and watch a remote directory for
// changes.
package agentbay
