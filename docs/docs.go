package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "description": "Asynchronous TCP reachability scans over HTTP.",
    "title": "pscan API",
    "version": "1.0"
  },
  "basePath": "/api/v1",
  "schemes": [
    "http"
  ],
  "paths": {
    "/scans": {
      "post": {
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "summary": "Create a scan task",
        "description": "Accepts a scan request, queues it for background workers, and returns a task ID to poll.",
        "operationId": "createScan",
        "tags": [
          "Scans"
        ],
        "parameters": [
          {
            "description": "Scan parameters",
            "name": "scanRequest",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/CreateScanRequest"
            }
          }
        ],
        "responses": {
          "202": {
            "description": "Scan task accepted",
            "schema": {
              "$ref": "#/definitions/ScanAcceptedResponse"
            }
          },
          "400": {
            "description": "Malformed request or port range",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    },
    "/scans/{id}": {
      "get": {
        "produces": [
          "application/json"
        ],
        "summary": "Get a scan task",
        "description": "Returns the current state of a task, including per-address port results once completed.",
        "operationId": "getScan",
        "tags": [
          "Scans"
        ],
        "parameters": [
          {
            "type": "string",
            "description": "Task ID",
            "name": "id",
            "in": "path",
            "required": true
          }
        ],
        "responses": {
          "200": {
            "description": "Scan task",
            "schema": {
              "$ref": "#/definitions/ScanTask"
            }
          },
          "404": {
            "description": "Unknown task",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      },
      "delete": {
        "produces": [
          "application/json"
        ],
        "summary": "Cancel a scan task",
        "description": "Cancels a pending or running task. Running scans stop cooperatively; in-flight connection attempts run to their timeout.",
        "operationId": "cancelScan",
        "tags": [
          "Scans"
        ],
        "parameters": [
          {
            "type": "string",
            "description": "Task ID",
            "name": "id",
            "in": "path",
            "required": true
          }
        ],
        "responses": {
          "202": {
            "description": "Cancellation accepted",
            "schema": {
              "$ref": "#/definitions/ScanAcceptedResponse"
            }
          },
          "404": {
            "description": "Unknown task",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "409": {
            "description": "Task already settled",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    }
  },
  "definitions": {
    "CreateScanRequest": {
      "type": "object",
      "required": [
        "target",
        "ports"
      ],
      "properties": {
        "target": {
          "type": "string",
          "example": "scanme.nmap.org"
        },
        "ports": {
          "type": "string",
          "example": "1-1024"
        },
        "timeout_ms": {
          "type": "integer",
          "example": 500
        },
        "retries": {
          "type": "integer",
          "example": 0
        },
        "parallel": {
          "type": "boolean",
          "example": true
        },
        "workers": {
          "type": "integer",
          "example": 16
        },
        "all_addresses": {
          "type": "boolean",
          "example": false
        }
      },
      "additionalProperties": false
    },
    "ScanAcceptedResponse": {
      "type": "object",
      "properties": {
        "id": {
          "type": "string",
          "example": "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"
        },
        "status": {
          "type": "string",
          "example": "pending"
        }
      },
      "additionalProperties": false
    },
    "ErrorResponse": {
      "type": "object",
      "properties": {
        "error": {
          "type": "string",
          "example": "task not found"
        }
      },
      "additionalProperties": false
    },
    "Result": {
      "type": "object",
      "properties": {
        "port": {
          "type": "integer",
          "example": 22
        },
        "open": {
          "type": "boolean",
          "example": true
        }
      },
      "additionalProperties": false
    },
    "AddressResult": {
      "type": "object",
      "properties": {
        "address": {
          "type": "string",
          "example": "45.33.32.156"
        },
        "ports": {
          "type": "array",
          "items": {
            "$ref": "#/definitions/Result"
          }
        }
      },
      "additionalProperties": false
    },
    "ScanTask": {
      "type": "object",
      "properties": {
        "id": {
          "type": "string",
          "example": "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"
        },
        "status": {
          "type": "string",
          "enum": [
            "pending",
            "running",
            "completed",
            "failed",
            "cancelled"
          ],
          "example": "pending"
        },
        "target": {
          "type": "string",
          "example": "scanme.nmap.org"
        },
        "ports": {
          "type": "string",
          "example": "1-1024"
        },
        "timeout_ms": {
          "type": "integer",
          "example": 500
        },
        "retries": {
          "type": "integer",
          "example": 0
        },
        "parallel": {
          "type": "boolean",
          "example": true
        },
        "workers": {
          "type": "integer",
          "example": 16
        },
        "all_addresses": {
          "type": "boolean",
          "example": false
        },
        "results": {
          "type": "array",
          "items": {
            "$ref": "#/definitions/AddressResult"
          }
        },
        "incomplete": {
          "type": "boolean",
          "example": false
        },
        "created_at": {
          "type": "string",
          "format": "date-time"
        },
        "completed_at": {
          "type": "string",
          "format": "date-time"
        },
        "error": {
          "type": "string",
          "example": "resolution failed: no such host"
        }
      },
      "additionalProperties": false
    }
  }
}
`

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

type swaggerDoc struct{}

func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}
