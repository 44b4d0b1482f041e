package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

// FilesystemOutput writes every message to its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears `dir` and creates it again.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// DumpMessages writes every response received by the client to `output`, the
// ids are sequential starting from 1.
func DumpMessages(client *resty.Client, output Output) {
	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(fmt.Sprintf("%d.txt", id), FormatMessage(res))
		return nil
	})
}
