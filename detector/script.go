package detector

import (
	"errors"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"
)

// ScriptDetector runs the YOLO model inside a long-lived Python helper and
// talks to it over stdin/stdout: one image path per line in, one JSON array
// of detections per line out. The helper is started lazily on the first
// Detect call and stopped again after sitting idle.
type ScriptDetector struct {
	script      string
	idleTimeout time.Duration

	mutex         sync.Mutex
	buf           []byte
	pipesReady    chan struct{}
	scriptRunning bool
	stdin         io.WriteCloser
	stdout        io.ReadCloser
	lastUsed      time.Time
}

func NewScriptDetector(script string, idleTimeout time.Duration) *ScriptDetector {
	d := &ScriptDetector{
		script:      script,
		idleTimeout: idleTimeout,
		buf:         make([]byte, 256*1024),
		pipesReady:  make(chan struct{}),
		lastUsed:    time.Now(),
	}
	go d.backgroundChecker()
	return d
}

func (d *ScriptDetector) shutdown() {
	d.scriptRunning = false
	if d.stdin != nil {
		d.stdin.Close()
	}
	if d.stdout != nil {
		d.stdout.Close()
	}
	d.stdin = nil
	d.stdout = nil
	log.Println("Detector script stopped")
}

func (d *ScriptDetector) backgroundChecker() {
	for {
		d.mutex.Lock()
		if d.scriptRunning {
			if time.Since(d.lastUsed) > d.idleTimeout && d.stdin != nil && d.stdout != nil {
				d.shutdown()
			} else {
				if d.writeAndRead("ping") != "pong" {
					d.shutdown()
				}
			}
		}
		d.mutex.Unlock()
		time.Sleep(10 * time.Second)
	}
}

func (d *ScriptDetector) writeAndRead(line string) string {
	if d.stdin == nil || d.stdout == nil {
		d.shutdown()
		return ""
	}
	_, err := d.stdin.Write([]byte(line + "\n"))
	if err != nil {
		log.Printf("Error writing to detector script: %v", err)
		d.shutdown()
		return ""
	}
	n, err := d.stdout.Read(d.buf)
	if err != nil {
		log.Printf("Error reading from detector script: %v", err)
		d.shutdown()
		return ""
	}
	if n == 0 {
		log.Println("Detector script returned empty result")
		return ""
	}
	// Strip the trailing newline
	return string(d.buf[0 : n-1])
}

func (d *ScriptDetector) Detect(imgPath string) ([]Detection, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.lastUsed = time.Now()

	// If the helper is not running, start it and wait for the pipes
	if !d.scriptRunning {
		log.Println("Starting detector script...")
		d.scriptRunning = true
		go d.runScript()
		<-d.pipesReady
	}
	result := d.writeAndRead(imgPath)
	if result == "" {
		return nil, errors.New("detector script produced no output")
	}
	return toDetectionList([]byte(result))
}

func (d *ScriptDetector) runScript() {
	// Start a new Python sub process and intercept its input/output
	cmd := exec.Command("python3", d.script)
	d.stdin, _ = cmd.StdinPipe()
	d.stdout, _ = cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()
	err := cmd.Start()
	if err != nil {
		log.Printf("Error running detector script: %v", err)
	}
	// Notify the caller that the pipes are ready
	d.pipesReady <- struct{}{}

	err = cmd.Wait()
	if err != nil {
		log.Printf("Detector script exited: %v, output: %s", err, readProcessOutput(stderr))
	}
}

// readProcessOutput drains up to one chunk of a helper stream. It keeps its
// own buffer: the shared read buffer belongs to the request path and this
// runs outside the mutex.
func readProcessOutput(r io.Reader) string {
	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	return string(buf[:n])
}
